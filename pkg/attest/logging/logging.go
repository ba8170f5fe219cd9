// Package logging provides component loggers for attest, backed by
// charmbracelet/log.
//
// Basic usage:
//
//	cfg := logging.Config{Level: "info"}
//	if err := logging.Init(cfg); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Close()
//
//	logger := logging.Get("builder")
//	logger.Info("build started", "root", "/data")
//
// Before Init is called every logger writes to io.Discard, so library
// packages can log unconditionally.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrInvalidLevel is returned when an unrecognized log level string is
// provided.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses a level string into a charmbracelet/log level.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// Config configures the logging system.
type Config struct {
	// Level is the default log level (debug, info, warn, error).
	Level string

	// Path is an optional log file. Empty logs to stderr.
	Path string

	// Components maps component names to level overrides.
	Components map[string]string
}

// state holds the global logging state.
type state struct {
	mu          sync.RWMutex
	initialized bool
	writer      io.Writer
	file        *os.File
	level       log.Level
	components  map[string]log.Level
	loggers     map[string]*log.Logger
}

var globalState = &state{
	writer:     io.Discard,
	components: make(map[string]log.Level),
	loggers:    make(map[string]*log.Logger),
}

// Init initializes the logging system. Calling it again replaces the
// previous configuration; existing loggers keep working.
func Init(cfg Config) error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	components := make(map[string]log.Level, len(cfg.Components))
	for comp, lvl := range cfg.Components {
		parsed, err := ParseLevel(lvl)
		if err != nil {
			return fmt.Errorf("component %s: %w", comp, err)
		}
		components[comp] = parsed
	}

	var writer io.Writer = os.Stderr
	var file *os.File
	if cfg.Path != "" {
		file, err = os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		writer = file
	}

	if globalState.file != nil {
		_ = globalState.file.Close()
	}

	globalState.level = level
	globalState.components = components
	globalState.writer = writer
	globalState.file = file
	globalState.initialized = true

	// Re-point existing loggers at the new configuration.
	for component, logger := range globalState.loggers {
		logger.SetOutput(writer)
		logger.SetLevel(levelFor(component))
	}

	return nil
}

// Get returns the logger for a component, creating it if needed.
func Get(component string) *log.Logger {
	globalState.mu.RLock()
	if logger, ok := globalState.loggers[component]; ok {
		globalState.mu.RUnlock()
		return logger
	}
	globalState.mu.RUnlock()

	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if logger, ok := globalState.loggers[component]; ok {
		return logger
	}

	logger := log.NewWithOptions(globalState.writer, log.Options{
		Prefix:          component,
		ReportTimestamp: true,
	})
	logger.SetLevel(levelFor(component))
	globalState.loggers[component] = logger
	return logger
}

// levelFor returns the effective level for a component. Callers must hold
// at least a read lock.
func levelFor(component string) log.Level {
	if lvl, ok := globalState.components[component]; ok {
		return lvl
	}
	return globalState.level
}

// Close releases the log file, if any.
func Close() error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if globalState.file != nil {
		err := globalState.file.Close()
		globalState.file = nil
		globalState.writer = io.Discard
		for _, logger := range globalState.loggers {
			logger.SetOutput(io.Discard)
		}
		return err
	}
	return nil
}
