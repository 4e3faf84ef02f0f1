package parser

import "github.com/sirupsen/logrus"

// Config controls how strictly the tree constructor treats its own
// invariants and where it logs.
type Config struct {
	// Debug turns internal invariant violations into panics. Without it they
	// are logged and repaired so a tree is still produced.
	Debug  bool
	Logger *logrus.Entry
}

type Option func(*Config)

func WithDebug(debug bool) Option {
	return func(c *Config) {
		c.Debug = debug
	}
}

func WithLogger(l *logrus.Entry) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func newConfig(opts []Option) Config {
	c := Config{}
	for _, o := range opts {
		o(&c)
	}
	if c.Logger == nil {
		c.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return c
}
