package tdmsfile

import (
	"errors"
	"time"

	"github.com/arloliu/tdms/engine"
	"github.com/arloliu/tdms/internal/options"
	"go.uber.org/zap"
)

type config struct {
	backend  engine.Backend
	logger   *zap.Logger
	tempDir  string
	zeroCopy bool
	location *time.Location
}

// Option configures Open and OpenReader.
type Option = options.Option[*config]

func newConfig(opts []Option) (*config, error) {
	cfg := &config{logger: zap.NewNop()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithEngine sets the decoding engine. It is required.
func WithEngine(backend engine.Backend) Option {
	return options.New(func(c *config) error {
		if backend == nil {
			return errors.New("tdmsfile: engine is nil")
		}
		c.backend = backend

		return nil
	})
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithTempDir sets the directory streams are staged in. The default is os.TempDir.
func WithTempDir(dir string) Option {
	return options.NoError(func(c *config) {
		c.tempDir = dir
	})
}

// WithZeroCopy makes Object.Data return borrowed views of engine memory where possible.
//
// Borrowed data is only valid while the file is open. The default returns owned copies.
func WithZeroCopy(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.zeroCopy = enabled
	})
}

// WithLocation sets the location of absolute time tracks. The default is UTC.
func WithLocation(loc *time.Location) Option {
	return options.NoError(func(c *config) {
		c.location = loc
	})
}
