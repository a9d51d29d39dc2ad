package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestCombinedWriter(t *testing.T) {
	var a, b bytes.Buffer
	errOne := errors.New("one")
	errTwo := errors.New("two")

	cw := NewCombinedWriter(&a, failingWriter{errOne}, &b, failingWriter{errTwo})
	n, err := cw.Write([]byte("hello"))

	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", a.String())
	assert.Equal(t, "hello", b.String())
	assert.ElementsMatch(t, []error{errOne, errTwo}, multierr.Errors(err))
}

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(""))
	assert.Equal(t, logrus.InfoLevel, GetLevel("chatty"))
}

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "corefit")

	logger, closer, err := Setup(SetupParams{LogFileName: path, LogLevel: "debug"})
	require.NoError(t, err)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	logger.WithField("workout", "w1").Debug("Autosaved performance")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Autosaved performance")
	assert.Contains(t, string(data), "workout=w1")
}
