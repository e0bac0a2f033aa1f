// Package logging manages setup of common logging interfaces and settings. Info, warn and error
// messages are always printed on the screen; when a log file is configured every level, debug
// included, is also written there.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// StdoutLogger is a Logrus hook for routing Info, Error, Warn, and Fatal logs to the screen.
type StdoutLogger struct {
	Stdout io.Writer
	Stderr io.Writer
	// Debug also routes debug logs, to stderr.
	Debug bool
}

// Levels defines on which log levels this hook would trigger.
func (hook *StdoutLogger) Levels() []logrus.Level {
	levels := []logrus.Level{
		logrus.InfoLevel,
		logrus.WarnLevel,
		logrus.ErrorLevel,
		logrus.FatalLevel,
	}
	if hook.Debug {
		levels = append(levels, logrus.DebugLevel)
	}
	return levels
}

// Fire executes the hook for the given entry.
func (hook *StdoutLogger) Fire(entry *logrus.Entry) error {
	message := fmt.Sprintf("%s\n", entry.Message)
	output := hook.Stdout
	if entry.Level != logrus.InfoLevel {
		output = hook.Stderr
	}
	var writer *color.Color
	switch entry.Level {
	case logrus.WarnLevel:
		writer = color.New(color.FgYellow)
	case logrus.ErrorLevel, logrus.FatalLevel:
		writer = color.New(color.FgRed)
	case logrus.DebugLevel:
		writer = color.New(color.FgHiBlack)
	default:
		writer = color.New(color.FgWhite)
	}
	writer.Fprint(output, message)
	return nil
}

// Setup configures logger. Formatted output goes to logFile, or is discarded when
// logFile is empty, while the StdoutLogger hook keeps the screen informed. Calling Setup again on
// the same logger replaces the screen hook. The returned func closes the log file.
func Setup(logger *logrus.Logger, level string, logFile string) (func() error, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	hook := &StdoutLogger{Stdout: os.Stdout, Stderr: os.Stderr, Debug: lvl >= logrus.DebugLevel}
	var out io.Writer = io.Discard
	closeFn := func() error { return nil }
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, errors.Wrap(err, "open log file")
		}
		out = f
		closeFn = f.Close
		// the file receives everything, the screen only what the hook selects
		lvl = logrus.DebugLevel
	}

	logger.SetLevel(lvl)
	logger.SetOutput(out)
	replaceScreenHook(logger, hook)
	logger.Debugf("command line: %v", os.Args)
	return closeFn, nil
}

func replaceScreenHook(logger *logrus.Logger, hook *StdoutLogger) {
	hooks := make(logrus.LevelHooks)
	for level, levelHooks := range logger.Hooks {
		for _, h := range levelHooks {
			if _, ok := h.(*StdoutLogger); ok {
				continue
			}
			hooks[level] = append(hooks[level], h)
		}
	}
	hooks.Add(hook)
	logger.ReplaceHooks(hooks)
}
