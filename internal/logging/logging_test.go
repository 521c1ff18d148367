package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/agri365/agri365/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"debug": zapcore.DebugLevel,
		"WARN":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	log, err := New(config.LogConfig{Level: "debug"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = New(config.LogConfig{Level: "warn", Development: true})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))

	_, err = New(config.LogConfig{Level: "chatty"})
	assert.Error(t, err)
}

func TestComponent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Component(zap.New(core), "search").Info("hello")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "search", logs.All()[0].ContextMap()[FieldComponent])

	assert.NotNil(t, Component(nil, "x"))
}
