package dedupe

// Option configures a memory deduper.
type Option func(*memoryDeduper)

// WithMaxSize bounds the tracked set to n sources, evicting the oldest
// first. Non-positive values disable the bound.
func WithMaxSize(n int) Option {
	return func(d *memoryDeduper) {
		d.maxSize = n
	}
}
