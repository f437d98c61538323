package config

import (
	"testing"
	"time"
)

func TestLoadTicketingConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"RESERVATION_TIMEOUT_SECONDS", "MAX_SEATS_PER_BOOKING", "LOCK_TIMEOUT_SECONDS",
		"LOCK_RETRY_DELAY_MS", "LOCK_MAX_RETRIES", "RECLAIMER_INTERVAL_SECONDS",
		"WORKER_BLOCK_TIMEOUT_SECONDS", "STATUS_TTL_HOURS",
	} {
		t.Setenv(key, "")
	}
	cfg := LoadTicketingConfig()
	if cfg.ReservationTimeout != 600*time.Second {
		t.Errorf("ReservationTimeout = %v, want 600s", cfg.ReservationTimeout)
	}
	if cfg.MaxSeatsPerBooking != 10 {
		t.Errorf("MaxSeatsPerBooking = %d, want 10", cfg.MaxSeatsPerBooking)
	}
	if cfg.LockTimeout != 30*time.Second {
		t.Errorf("LockTimeout = %v, want 30s", cfg.LockTimeout)
	}
	if cfg.LockRetryDelay != 100*time.Millisecond {
		t.Errorf("LockRetryDelay = %v, want 100ms", cfg.LockRetryDelay)
	}
	if cfg.StatusTTL != 24*time.Hour {
		t.Errorf("StatusTTL = %v, want 24h", cfg.StatusTTL)
	}
}

func TestLoadTicketingConfigOverrides(t *testing.T) {
	t.Setenv("RESERVATION_TIMEOUT_SECONDS", "120")
	t.Setenv("STATUS_TTL_HOURS", "1")
	cfg := LoadTicketingConfig()
	if cfg.ReservationTimeout != 120*time.Second {
		t.Errorf("ReservationTimeout = %v, want 120s", cfg.ReservationTimeout)
	}
	if cfg.StatusTTL != time.Hour {
		t.Errorf("StatusTTL = %v, want 1h", cfg.StatusTTL)
	}
}
