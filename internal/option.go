package internal

import "github.com/starford/raido/internal/writer"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	flattener writer.Flattener
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithFlattener overrides the external converter used in markdown mode.
// Tests inject a stub here.
func WithFlattener(f writer.Flattener) Option {
	return func(a *application) {
		a.flattener = f
	}
}
