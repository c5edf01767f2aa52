package outbox

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestBackoffDelayDefaults(t *testing.T) {
	w := NewWorker(nil, nil)

	cases := []struct {
		retryCount int
		want       time.Duration
	}{
		{1, 60 * time.Second},
		{2, 120 * time.Second},
		{3, 240 * time.Second},
	}

	for _, tc := range cases {
		if got := w.backoffDelay(tc.retryCount); got != tc.want {
			t.Errorf("backoffDelay(%d) = %v, want %v", tc.retryCount, got, tc.want)
		}
	}
}

func TestBackoffDelayConfigured(t *testing.T) {
	viper.Set("rabbitmq.outbox.retry_interval_seconds", 10)
	t.Cleanup(viper.Reset)

	w := NewWorker(nil, nil)

	if got, want := w.backoffDelay(1), 20*time.Second; got != want {
		t.Errorf("backoffDelay(1) = %v, want %v", got, want)
	}
	if got, want := w.backoffDelay(2), 40*time.Second; got != want {
		t.Errorf("backoffDelay(2) = %v, want %v", got, want)
	}
}
