package config

import "time"

// TicketingConfig holds the tunables named in the operation surface's
// configuration section: hold duration, batch-size cap, lock behavior,
// reclaimer cadence, queued-path worker block timeout, and status TTL.
// WorkerBlockTimeout is loaded but not passed to the queue workers, which
// block for a fixed 5 s on each stream read.
type TicketingConfig struct {
	ReservationTimeout time.Duration
	MaxSeatsPerBooking int
	LockTimeout        time.Duration
	LockRetryDelay     time.Duration
	LockMaxRetries     int
	ReclaimInterval    time.Duration
	WorkerBlockTimeout time.Duration
	StatusTTL          time.Duration
}

// LoadTicketingConfig reads environment overrides, falling back to the
// documented defaults. Unlike Load (Config), these knobs are permissive —
// tuning the reservation window or retry budget shouldn't crash the
// process at startup, so missing/malformed values fall back quietly,
// matching the envInt/envDur convention already used for rate limiting.
func LoadTicketingConfig() TicketingConfig {
	return TicketingConfig{
		ReservationTimeout: secondsOr("RESERVATION_TIMEOUT_SECONDS", 600),
		MaxSeatsPerBooking: envInt("MAX_SEATS_PER_BOOKING", 10),
		LockTimeout:        secondsOr("LOCK_TIMEOUT_SECONDS", 30),
		LockRetryDelay:     millisOr("LOCK_RETRY_DELAY_MS", 100),
		LockMaxRetries:     envInt("LOCK_MAX_RETRIES", 50),
		ReclaimInterval:    secondsOr("RECLAIMER_INTERVAL_SECONDS", 30),
		WorkerBlockTimeout: secondsOr("WORKER_BLOCK_TIMEOUT_SECONDS", 5),
		StatusTTL:          hoursOr("STATUS_TTL_HOURS", 24),
	}
}

func secondsOr(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Second
}

func millisOr(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Millisecond
}

func hoursOr(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Hour
}
