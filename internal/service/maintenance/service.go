package maintenance

import (
	"time"

	"github.com/vertextoedge/image-fetcher/internal/port"
	"go.uber.org/zap"
)

// DefaultTempFileMaxAge is the age after which a leftover temp file is
// considered abandoned.
const DefaultTempFileMaxAge = 24 * time.Hour

// Config contains maintenance configuration
type Config struct {
	// TempFileMaxAge is the maximum age of temp files before cleanup
	TempFileMaxAge time.Duration
}

// DefaultConfig returns default maintenance configuration
func DefaultConfig() *Config {
	return &Config{TempFileMaxAge: DefaultTempFileMaxAge}
}

// Service performs housekeeping on the output directory before a run.
type Service struct {
	config *Config
	fs     port.FileSystem
	logger *zap.Logger
}

// New creates a new maintenance Service
func New(cfg *Config, fs port.FileSystem, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.TempFileMaxAge <= 0 {
		cfg.TempFileMaxAge = DefaultTempFileMaxAge
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{config: cfg, fs: fs, logger: logger}
}

// Sweep removes temp files left behind by interrupted runs and returns how
// many were deleted. Failures are logged and never abort the run.
func (s *Service) Sweep() int {
	count, err := s.fs.CleanOldTempFiles(s.config.TempFileMaxAge)
	if err != nil {
		s.logger.Warn("failed to cleanup old temp files", zap.Error(err))
	}
	if count > 0 {
		s.logger.Info("cleaned up old temp files", zap.Int("count", count))
	}
	return count
}
