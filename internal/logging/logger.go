// Package logging provides config-driven categorized logging for bioret.
// Every pipeline stage logs under its own category; categories can be
// switched off individually in the logging section of bioret.yaml.
package logging

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bioretention/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // CLI startup, config resolution
	CategoryLoad     Category = "load"     // Workbook reading
	CategoryClean    Category = "clean"    // Row filtering and normalization
	CategoryAlign    Category = "align"    // Feature column alignment
	CategoryAnalysis Category = "analysis" // Join, forecast, aggregation
	CategoryExport   Category = "export"   // CSV writing
	CategoryStore    Category = "store"    // Run history database
	CategoryWatch    Category = "watch"    // Workbook file watching
	CategoryAudit    Category = "audit"    // Data-quality audit events
)

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	current config.LoggingConfig
	loggers = make(map[Category]*zap.SugaredLogger)
)

// New builds a zap logger from the logging config. verbose forces debug level.
func New(lc config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	var zc zap.Config
	if lc.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}

	level := zapcore.InfoLevel
	if lc.Level != "" {
		parsed, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
		}
		level = parsed
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if lc.File != "" {
		zc.OutputPaths = append(zc.OutputPaths, lc.File)
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Initialize builds the process logger and installs it for Get.
func Initialize(lc config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	logger, err := New(lc, verbose)
	if err != nil {
		return nil, err
	}
	Install(logger, lc)

	boot := Get(CategoryBoot)
	boot.Debugw("logging initialized", "level", logger.Level().String(), "format", lc.Format)
	return logger, nil
}

// Install replaces the base logger and category settings. Tests use it to
// plug in an observer core.
func Install(logger *zap.Logger, lc config.LoggingConfig) {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	base = logger
	current = lc
	loggers = make(map[Category]*zap.SugaredLogger)
}

// Reset restores the no-op logger.
func Reset() {
	Install(nil, config.LoggingConfig{})
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return current.IsCategoryEnabled(string(category))
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if the category is disabled.
func Get(category Category) *zap.SugaredLogger {
	if !IsCategoryEnabled(category) {
		return zap.NewNop().Sugar()
	}

	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	// Double-check after acquiring write lock
	if l, ok := loggers[category]; ok {
		return l
	}
	l := base.Named(string(category)).Sugar()
	loggers[category] = l
	return l
}

// Sync flushes the base logger.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return base.Sync()
}

// =============================================================================
// TIMING HELPERS - For stage durations
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debugw(t.op+" completed", "elapsed", elapsed)
	return elapsed
}

// StopWithInfo ends the timer and logs at info level
func (t *Timer) StopWithInfo() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Infow(t.op+" completed", "elapsed", elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warnw(t.op+" slow", "elapsed", elapsed, "threshold", threshold)
	} else {
		Get(t.category).Debugw(t.op+" completed", "elapsed", elapsed)
	}
	return elapsed
}
