package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/morokoshi/quizlet/internal/config"
)

// New builds the CLI logger, writing to stderr.
func New(cfg *config.Config) (*zap.Logger, error) {
	return build(cfg, "stderr")
}

// NewTUI builds the logger used while the terminal UI is running. The UI
// owns stdout and stderr, so output goes to cfg.Log.File or nowhere.
func NewTUI(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Log.File == "" {
		return zap.NewNop(), nil
	}
	return build(cfg, cfg.Log.File)
}

func build(cfg *config.Config, sink string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{sink}
	zcfg.ErrorOutputPaths = []string{sink}
	return zcfg.Build()
}
