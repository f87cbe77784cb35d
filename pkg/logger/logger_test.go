package logger

import (
	"path/filepath"
	"quiz_iq_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		mode, level string
		want        zapcore.Level
	}{
		{"debug", "", zapcore.DebugLevel},
		{"release", "", zapcore.InfoLevel},
		{"release", "warn", zapcore.WarnLevel},
		{"debug", "error", zapcore.ErrorLevel},
		{"release", "loud", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		cfg := &config.Config{Server: config.ServerConfig{Mode: tt.mode}, Log: config.LogConfig{Level: tt.level}}
		assert.Equal(t, tt.want, Level(cfg), "mode=%s level=%q", tt.mode, tt.level)
	}
}

func TestInitLoggerHonoursLevel(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Log: config.LogConfig{
			Level:             "warn",
			Filename:          filepath.Join(t.TempDir(), "app.log"),
			MaxSizeMB:         1,
			SamplingPerSecond: 10,
		},
	}
	InitLogger(cfg)

	assert.False(t, Log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Log.Core().Enabled(zapcore.WarnLevel))
}

func TestPhoneIsMasked(t *testing.T) {
	assert.Equal(t, "**********5678", MaskPhone("+2348012345678"))
	assert.Equal(t, "****", MaskPhone("123"))
	assert.Equal(t, "**********5678", Phone("+2348012345678").String)
}

func TestDomainFields(t *testing.T) {
	assert.Equal(t, "quizId", QuizID("q1").Key)
	assert.Equal(t, "attemptId", AttemptID("a1").Key)
	assert.Equal(t, "userId", UserID("u1").Key)
	assert.Equal(t, "reference", Reference("PAY_1").Key)
}
