package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	serve  bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithServe switches the application from a one-shot build into the
// preview server.
func WithServe(serve bool) Option {
	return func(a *application) {
		a.serve = serve
	}
}
