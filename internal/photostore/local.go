package photostore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const metadataSuffix = ".meta.json"

// LocalStore writes photos below Root and hands out URLs below BaseURL
type LocalStore struct {
	Root    string
	BaseURL string
	Logger  *slog.Logger
}

// NewLocalStore creates the root directory if needed
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create photo root: %w", err)
	}
	return &LocalStore{
		Root:    root,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Logger:  slog.Default(),
	}, nil
}

func (l *LocalStore) CreateFolder(ctx context.Context, jobID, jobTitle string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if jobID == "" {
		return "", errors.New("job id is required")
	}

	folder := FolderName(jobID, jobTitle)
	if err := os.MkdirAll(l.dir(folder), 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", folder, err)
	}
	return folder, nil
}

func (l *LocalStore) UploadPhoto(ctx context.Context, folder, fileName string, data []byte, mimeType string, meta Metadata) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !mimeAllowed(mimeType) {
		return "", fmt.Errorf("unsupported photo type %q", mimeType)
	}

	dir := l.dir(folder)
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("folder %s: %w", folder, err)
	}

	base := filepath.Base(filepath.Clean("/" + fileName))
	if base == "/" || base == "." {
		base = "photo"
	}
	name := fmt.Sprintf("%s_%s_%s", meta.Timestamp.UTC().Format("2006-01-02"), uuid.NewString()[:8], base)

	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write photo: %w", err)
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+metadataSuffix), metaJSON, 0o644); err != nil {
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	return l.url(folder, name), nil
}

func (l *LocalStore) ListPhotos(ctx context.Context, folder string) ([]Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(l.dir(folder))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Photo{}, nil
		}
		return nil, fmt.Errorf("failed to read folder %s: %w", folder, err)
	}

	photos := make([]Photo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, metadataSuffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}

		photo := Photo{
			ID:          folder + "/" + name,
			Name:        name,
			URL:         l.url(folder, name),
			CreatedTime: info.ModTime().UTC(),
		}
		if raw, err := os.ReadFile(filepath.Join(l.dir(folder), name+metadataSuffix)); err == nil {
			// a broken sidecar only costs the metadata, the photo is still listed
			if err := json.Unmarshal(raw, &photo.Metadata); err != nil {
				l.logger().Warn("Ignoring unreadable photo metadata",
					slog.String("folder", folder),
					slog.String("photo", name),
					slog.String("error", err.Error()),
				)
				photo.Metadata = Metadata{}
			}
		}
		photos = append(photos, photo)
	}

	sort.Slice(photos, func(i, k int) bool { return photos[i].Name < photos[k].Name })
	return photos, nil
}

func (l *LocalStore) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

func (l *LocalStore) dir(folder string) string {
	return filepath.Join(l.Root, filepath.Base(filepath.Clean("/"+folder)))
}

func (l *LocalStore) url(folder, name string) string {
	return l.BaseURL + "/" + path.Join(url.PathEscape(folder), url.PathEscape(name))
}

func mimeAllowed(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}
