package logger

import (
	"os"
	"quiz_iq_backend/internal/config"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 在 InitLogger 之前为 Nop，测试中可直接使用
var Log = zap.NewNop()

// InitLogger 文件输出 JSON（lumberjack 轮转），控制台输出可读格式。
// release 模式下按 log.sampling_per_second 对重复日志采样。
func InitLogger(cfg *config.Config) {
	Log = zap.New(newCore(cfg), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)).Named("quiz-iq")
}

func newCore(cfg *config.Config) zapcore.Core {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.MillisDurationEncoder

	level := Level(cfg)
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Log.Filename,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Compress:   true,
	})

	consoleConfig := encoderConfig
	consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.AddSync(os.Stdout), level),
	)

	if cfg.Server.Mode == "release" && cfg.Log.SamplingPerSecond > 0 {
		core = zapcore.NewSamplerWithOptions(core, time.Second, cfg.Log.SamplingPerSecond, cfg.Log.SamplingPerSecond)
	}
	return core
}

// Level 显式配置优先，否则 debug 模式输出 Debug 级别
func Level(cfg *config.Config) zapcore.Level {
	if cfg.Log.Level != "" {
		if lvl, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
			return lvl
		}
	}
	if cfg.Server.Mode == "debug" {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

func QuizID(id string) zap.Field    { return zap.String("quizId", id) }
func AttemptID(id string) zap.Field { return zap.String("attemptId", id) }
func UserID(id string) zap.Field    { return zap.String("userId", id) }
func Reference(ref string) zap.Field {
	return zap.String("reference", ref)
}

// Phone 手机号只保留后四位
func Phone(phone string) zap.Field {
	return zap.String("phone", MaskPhone(phone))
}

func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
