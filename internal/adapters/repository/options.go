package repository

import "time"

// settings collects store options shared by all drivers.
type settings struct {
	dsn            string
	table          string
	connectTimeout time.Duration
	now            func() time.Time
}

func defaultSettings() settings {
	return settings{
		table:          "draft_states",
		connectTimeout: 5 * time.Second,
		now:            time.Now,
	}
}

// Option applies a configuration option to a store.
type Option func(*settings)

// WithDSN sets the Postgres connection string.
func WithDSN(dsn string) Option {
	return func(s *settings) {
		s.dsn = dsn
	}
}

// WithTable overrides the Postgres table name.
func WithTable(table string) Option {
	return func(s *settings) {
		if table != "" {
			s.table = table
		}
	}
}

// WithConnectTimeout bounds the initial ping and schema setup.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.connectTimeout = d
		}
	}
}

// WithClock injects the time source used for updated-at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}
