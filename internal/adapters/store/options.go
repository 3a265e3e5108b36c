package store

// sqliteConfig holds tunables for the SQLite store.
type sqliteConfig struct {
	busyTimeoutMs int
}

func defaultSQLiteConfig() sqliteConfig {
	return sqliteConfig{busyTimeoutMs: 5000}
}

// Option applies a configuration option to the SQLite store.
type Option func(*sqliteConfig)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds.
// Non-positive values keep the default.
func WithBusyTimeout(ms int) Option {
	return func(c *sqliteConfig) {
		if ms > 0 {
			c.busyTimeoutMs = ms
		}
	}
}
