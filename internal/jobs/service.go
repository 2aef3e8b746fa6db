// Package jobs owns the job and work update collections: role-gated job
// mutations, the work update ledger and progress derivation.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/cuongbtq/sitejobs/internal/keylock"
	"github.com/cuongbtq/sitejobs/internal/notify"
	"github.com/cuongbtq/sitejobs/internal/photostore"
	"github.com/cuongbtq/sitejobs/internal/store"
	"github.com/google/uuid"
)

// DefaultPhotoTimeout bounds every photo store call
const DefaultPhotoTimeout = 30 * time.Second

// Config holds service dependencies
type Config struct {
	Store        store.Store
	Photos       photostore.Store // optional
	Notifier     notify.Sender    // optional
	Logger       *slog.Logger
	PhotoTimeout time.Duration
	LockStripes  int
	Now          func() time.Time
	NewID        func() string
}

// Service is the only writer of jobs and work updates
type Service struct {
	store        store.Store
	photos       photostore.Store
	notifier     notify.Sender
	logger       *slog.Logger
	photoTimeout time.Duration
	locks        *keylock.Locker
	now          func() time.Time
	newID        func() string
}

// NewService creates a new Service instance
func NewService(cfg *Config) *Service {
	s := &Service{
		store:        cfg.Store,
		photos:       cfg.Photos,
		notifier:     cfg.Notifier,
		logger:       cfg.Logger,
		photoTimeout: cfg.PhotoTimeout,
		locks:        keylock.New(cfg.LockStripes),
		now:          cfg.Now,
		newID:        cfg.NewID,
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.photoTimeout <= 0 {
		s.photoTimeout = DefaultPhotoTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}

	return s
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC()
}

// notify is best effort: failures are logged and never reach the caller
func (s *Service) notify(ctx context.Context, recipient, text string) {
	if s.notifier == nil || recipient == "" {
		return
	}
	if err := s.notifier.Send(ctx, recipient, text); err != nil {
		s.logger.Warn("Failed to send notification",
			slog.String("recipient", recipient),
			slog.String("error", err.Error()),
		)
	}
}
