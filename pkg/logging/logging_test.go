package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdoutLogger(t *testing.T) {
	color.NoColor = true
	var stdout, stderr bytes.Buffer

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	logger.SetLevel(logrus.DebugLevel)
	logger.AddHook(&StdoutLogger{Stdout: &stdout, Stderr: &stderr})

	logger.Info("wrote manifests")
	logger.Warn("odd name")
	logger.Debug("hidden")

	assert.Equal(t, "wrote manifests\n", stdout.String())
	assert.Equal(t, "odd name\n", stderr.String())
}

func TestStdoutLogger_Debug(t *testing.T) {
	color.NoColor = true
	var stdout, stderr bytes.Buffer

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	logger.SetLevel(logrus.DebugLevel)
	logger.AddHook(&StdoutLogger{Stdout: &stdout, Stderr: &stderr, Debug: true})

	logger.Debug("composing node")
	assert.Empty(t, stdout.String())
	assert.Equal(t, "composing node\n", stderr.String())
}

func TestSetup(t *testing.T) {
	logger := logrus.New()
	_, err := Setup(logger, "loud", "")
	assert.ErrorContains(t, err, "parse log level")

	closeFn, err := Setup(logrus.New(), "warn", "")
	require.NoError(t, err)
	assert.NoError(t, closeFn())

	path := filepath.Join(t.TempDir(), "cita-manifests.log")
	logger = logrus.New()
	closeFn, err = Setup(logger, "info", path)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.Debug("only in the file")
	require.NoError(t, closeFn())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "only in the file")
}

func TestSetup_ReplacesScreenHook(t *testing.T) {
	logger, testHook := test.NewNullLogger()

	for _, level := range []string{"info", "debug", "warn"} {
		closeFn, err := Setup(logger, level, "")
		require.NoError(t, err)
		require.NoError(t, closeFn())
	}

	assert.Equal(t, 1, countScreenHooks(logger, logrus.WarnLevel))
	// the last setup was at warn, so debug no longer reaches the screen
	assert.Equal(t, 0, countScreenHooks(logger, logrus.DebugLevel))

	logger.Warn("kept")
	assert.Equal(t, "kept", testHook.LastEntry().Message)
}

func countScreenHooks(logger *logrus.Logger, level logrus.Level) int {
	var n int
	for _, h := range logger.Hooks[level] {
		if _, ok := h.(*StdoutLogger); ok {
			n++
		}
	}
	return n
}
