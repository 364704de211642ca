package decimator

// config holds settings shared by every filter kind.
type config struct {
	// parallel processes the channels of *Multi calls concurrently.
	parallel bool
}

// Option mutates a filter configuration.
type Option func(*config)

// WithParallel enables concurrent processing of channels in the *Multi
// filter calls. One goroutine is used per channel. Has no effect on
// single-channel input.
func WithParallel(enabled bool) Option {
	return func(cfg *config) {
		cfg.parallel = enabled
	}
}

// applyOptions applies zero or more options to the default config.
func applyOptions(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
