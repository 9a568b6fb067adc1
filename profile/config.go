package profile

// Config returns the parameters of a profiler: the mode, the output
// directory, and whether the profiler stays silent about its output.
type Config func() (mode, path string, quiet bool)

// Option transforms a Config.
type Option func(Config) Config

// Start starts a profiler for the mode of c and returns its controller.
//
// An empty mode, an unknown mode, or a build without the pprof tag yields a
// controller whose Stop does nothing.
func (c Config) Start() interface{ Stop() } {
	mode, path, quiet := c()

	if mode == "" {
		return ignore{}
	}

	return start(mode, path, quiet)
}

// WithMode sets the profiling mode.
func WithMode(mode string) Option {
	return func(c Config) Config {
		_, path, quiet := c()

		return func() (string, string, bool) { return mode, path, quiet }
	}
}

// WithPath sets the output directory.
func WithPath(path string) Option {
	return func(c Config) Config {
		mode, _, quiet := c()

		return func() (string, string, bool) { return mode, path, quiet }
	}
}

// WithQuiet sets whether the profiler logs where it writes.
func WithQuiet(quiet bool) Option {
	return func(c Config) Config {
		mode, path, _ := c()

		return func() (string, string, bool) { return mode, path, quiet }
	}
}

type ignore struct{}

func (ignore) Stop() {}
