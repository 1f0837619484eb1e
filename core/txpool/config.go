package txpool

// Config holds the pool's tunables (spec §6).
type Config struct {
	// MaxNewPendingTxsNotifications bounds the buffer of the pending
	// pool's new-transaction broadcast channel for subscribers that do not
	// pass a buffer size of their own.
	MaxNewPendingTxsNotifications int

	// RecentRejectionsCap bounds the diagnostic ring of recently-rejected
	// submissions exposed by Pool.RecentRejections. It has no bearing on
	// admission, replacement, or iteration semantics (SPEC_FULL §4.7/§6).
	RecentRejectionsCap int
}

// DefaultConfig mirrors the spec's defaults: one buffered pending
// notification, a 128-entry rejection ring.
var DefaultConfig = Config{
	MaxNewPendingTxsNotifications: 1,
	RecentRejectionsCap:           128,
}

func (c Config) sanitize() Config {
	if c.MaxNewPendingTxsNotifications <= 0 {
		c.MaxNewPendingTxsNotifications = DefaultConfig.MaxNewPendingTxsNotifications
	}
	if c.RecentRejectionsCap <= 0 {
		c.RecentRejectionsCap = DefaultConfig.RecentRejectionsCap
	}
	return c
}
