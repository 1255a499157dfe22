package analytics

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithResultLimit caps the number of records a filter returns.
func WithResultLimit(limit int) Option {
	return func(p *Pipeline) {
		if limit > 0 {
			p.resultLimit = limit
		}
	}
}

// WithTopN sets the default ranking length.
func WithTopN(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.topN = n
		}
	}
}
