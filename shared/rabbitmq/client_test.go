package rabbitmq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff(t *testing.T) {
	tests := []struct {
		name    string
		base    time.Duration
		mult    float64
		attempt int
		want    time.Duration
	}{
		{name: "first retry uses base", base: 100 * time.Millisecond, mult: 2, attempt: 0, want: 100 * time.Millisecond},
		{name: "doubles", base: 100 * time.Millisecond, mult: 2, attempt: 2, want: 400 * time.Millisecond},
		{name: "custom multiplier", base: time.Second, mult: 1.5, attempt: 2, want: 2250 * time.Millisecond},
		{name: "flat", base: time.Second, mult: 1, attempt: 5, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Backoff(tt.base, tt.mult, tt.attempt))
		})
	}
}

func TestClientNotConnected(t *testing.T) {
	c := &Client{config: &Config{}}

	assert.Error(t, c.Publish(t.Context(), []byte("{}"), "application/json"))
	assert.Error(t, c.PublishWithRetry(t.Context(), []byte("{}"), "application/json"))
	assert.Error(t, c.Qos(1))
	_, err := c.Consume("tag")
	assert.Error(t, err)
	assert.False(t, c.IsConnected())
}
