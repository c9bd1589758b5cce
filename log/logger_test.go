package log

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestSplitLevel(t *testing.T) {
	t.Parallel()
	l := splitLevel("INFO|warn| ERROR")
	assert.True(t, l.Info)
	assert.True(t, l.Warn)
	assert.True(t, l.Error)
	assert.False(t, l.Debug)
	assert.Equal(t, Levels{}, splitLevel(""))
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()
	a, b := &syncBuffer{}, &syncBuffer{}
	mw, err := MultiWriter(a, b)
	require.NoError(t, err)
	assert.ErrorIs(t, mw.Add(a), errWriterAlreadyLoaded)
	assert.ErrorIs(t, mw.Add(nil), errWriterIsNil)

	n, err := mw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", a.String())
	assert.Equal(t, "hello", b.String())

	require.NoError(t, mw.Remove(a))
	assert.ErrorIs(t, mw.Remove(a), errWriterNotFound)
	_, err = mw.Write([]byte("!"))
	require.NoError(t, err)
	assert.Equal(t, "hello", a.String())
	assert.Equal(t, "hello!", b.String())
}

func TestGetWriters(t *testing.T) {
	t.Parallel()
	_, err := getWriters(nil)
	assert.ErrorIs(t, err, errSubloggerConfigIsNil)
	_, err = getWriters(&SubLoggerConfig{Output: "console|carrier-pigeon"})
	assert.ErrorIs(t, err, errUnhandledOutputWriter)
	mw, err := getWriters(&SubLoggerConfig{Output: "stdout|stderr"})
	require.NoError(t, err)
	assert.Len(t, mw.writers, 2)
}

// Tests below mutate package state and therefore do not run in parallel.

func TestSetupGlobalLoggerAndWriters(t *testing.T) {
	cfg := GenDefaultSettings()
	cfg.Output = ""
	cfg.Structured = true
	cfg.SubLoggers = []SubLoggerConfig{{Name: "broker", Level: "ERROR"}}
	require.NoError(t, SetupGlobalLogger(&cfg))
	t.Cleanup(func() {
		def := GenDefaultSettings()
		_ = SetupGlobalLogger(&def)
	})

	buf := &syncBuffer{}
	require.NoError(t, AddWriter(buf))
	Infof(Session, "rebalance %d", 1)
	Infoln(Broker, "filtered")
	Errorf(Broker, "rejected %s", "ABC")
	Debug(nil, "nil sub loggers are ignored")
	require.NoError(t, RemoveWriter(buf))
	Info(Session, "not captured")

	out := buf.String()
	assert.Contains(t, out, `"sublogger":"SESSION"`)
	assert.Contains(t, out, `"message":"rebalance 1"`)
	assert.Contains(t, out, `"message":"rejected ABC"`)
	assert.NotContains(t, out, "filtered")
	assert.NotContains(t, out, "not captured")
	assert.ErrorIs(t, RemoveWriter(buf), errWriterNotFound)

	cfg.SubLoggers = []SubLoggerConfig{{Name: "nope"}}
	assert.True(t, errors.Is(SetupGlobalLogger(&cfg), errSubLoggerNotFound))
	assert.ErrorIs(t, SetupGlobalLogger(nil), errSubloggerConfigIsNil)
}

func TestCustomLogHook(t *testing.T) {
	var seen []string
	SetCustomLogHook(func(level, name, msg string) bool {
		seen = append(seen, level+":"+name+":"+msg)
		return strings.HasPrefix(msg, "skip")
	})
	t.Cleanup(func() { SetCustomLogHook(nil) })
	buf := &syncBuffer{}
	require.NoError(t, AddWriter(buf))
	t.Cleanup(func() { _ = RemoveWriter(buf) })

	Warn(Data, "skip me")
	Warnf(Data, "keep %v", true)
	assert.Equal(t, []string{"warn:DATA:skip me", "warn:DATA:keep true"}, seen)
	assert.NotContains(t, buf.String(), "skip me")
	assert.Contains(t, buf.String(), "keep true")
}
