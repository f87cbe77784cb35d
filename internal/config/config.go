package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Redis     RedisConfig
	OTP       OTPConfig       `mapstructure:"otp"`
	Paystack  PaystackConfig  `mapstructure:"paystack"`
	Events    EventsConfig    `mapstructure:"events"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port   string
	Mode   string
	AppURL string `mapstructure:"app_url"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"` // 为空时按 server.mode 决定
	Filename          string `mapstructure:"filename"`
	MaxSizeMB         int    `mapstructure:"max_size_mb"`
	MaxBackups        int    `mapstructure:"max_backups"`
	MaxAgeDays        int    `mapstructure:"max_age_days"`
	SamplingPerSecond int    `mapstructure:"sampling_per_second"` // 仅 release 模式生效，0 关闭采样
}

type RateLimitConfig struct {
	MaxRequests    int `mapstructure:"max_requests"`
	WindowMinutes  int `mapstructure:"window_minutes"`
	OTPMaxRequests int `mapstructure:"otp_max_requests"`
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type SessionConfig struct {
	Secret      string        `mapstructure:"secret"`
	UserExpire  time.Duration `mapstructure:"user_expire_hours"`
	AdminExpire time.Duration `mapstructure:"admin_expire_hours"`
	Secure      bool          `mapstructure:"secure_cookie"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type OTPConfig struct {
	AccountSID          string `mapstructure:"account_sid"`
	AuthToken           string `mapstructure:"auth_token"`
	FromNumber          string `mapstructure:"from_number"`
	WhatsAppNumber      string `mapstructure:"whatsapp_number"`
	WhatsAppTemplateSID string `mapstructure:"whatsapp_template_sid"`
	BaseURL             string `mapstructure:"base_url"`
	ExpiryMinutes       int    `mapstructure:"expiry_minutes"`
	ResendCooldownSecs  int    `mapstructure:"resend_cooldown_seconds"`
}

type PaystackConfig struct {
	SecretKey           string `mapstructure:"secret_key"`
	BaseURL             string `mapstructure:"base_url"`
	CustomerEmailDomain string `mapstructure:"customer_email_domain"` // 用户只有手机号，用于拼接 Paystack 所需邮箱
}

type EventsConfig struct {
	AMQPURL  string `mapstructure:"amqp_url"`
	Exchange string `mapstructure:"exchange"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("QUIZ_IQ")
	v.AutomaticEnv()

	setDefaults(v)

	// Database
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// Session
	v.BindEnv("session.secret", "SESSION_SECRET")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.app_url", "APP_URL")
	v.BindEnv("log.level", "LOG_LEVEL")

	// Twilio
	v.BindEnv("otp.account_sid", "TWILIO_ACCOUNT_SID")
	v.BindEnv("otp.auth_token", "TWILIO_AUTH_TOKEN")
	v.BindEnv("otp.from_number", "TWILIO_PHONE_NUMBER")
	v.BindEnv("otp.whatsapp_number", "TWILIO_WHATSAPP_NUMBER")
	v.BindEnv("otp.whatsapp_template_sid", "TWILIO_WHATSAPP_TEMPLATE_SID")

	// Paystack
	v.BindEnv("paystack.secret_key", "PAYSTACK_SECRET_KEY")

	// Events
	v.BindEnv("events.amqp_url", "AMQP_URL")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Session.UserExpire = cfg.Session.UserExpire * time.Hour
	cfg.Session.AdminExpire = cfg.Session.AdminExpire * time.Hour

	// 生产环境校验 Session Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.Session.Secret) < 32 {
		return nil, fmt.Errorf("session secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.Session.Secret))
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.app_url", "http://localhost:5000")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("session.user_expire_hours", 28*24)
	v.SetDefault("session.admin_expire_hours", 24)
	v.SetDefault("otp.base_url", "https://api.twilio.com")
	v.SetDefault("otp.expiry_minutes", 10)
	v.SetDefault("otp.resend_cooldown_seconds", 60)
	v.SetDefault("paystack.base_url", "https://api.paystack.co")
	v.SetDefault("paystack.customer_email_domain", "easyreadiq.com")
	v.SetDefault("events.exchange", "quiz_iq.events")
	v.SetDefault("rate_limit.max_requests", 6000)
	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("rate_limit.otp_max_requests", 5)
	v.SetDefault("log.filename", "logs/app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.sampling_per_second", 100)
}
