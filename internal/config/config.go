package config

import "time"

type Config struct {
	Environment string         `yaml:"environment" env:"APP_ENV" env-default:"development"`
	Server      ServerConfig   `yaml:"server"`
	Database    DatabaseConfig `yaml:"database"`
	Redis       RedisConfig    `yaml:"redis"`
	Kafka       KafkaConfig    `yaml:"kafka"`
	JWT         JWTConfig      `yaml:"jwt"`
	Security    SecurityConfig `yaml:"security"`
	MFA         MFAConfig      `yaml:"mfa"`
	Captcha     CaptchaConfig  `yaml:"captcha"`
	Logging     LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type DatabaseConfig struct {
	Host        string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port        int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User        string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password    string `yaml:"password" env:"DB_PASSWORD"`
	DBName      string `yaml:"dbname" env:"DB_NAME" env-default:"debrief_auth"`
	SSLMode     string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	MaxConns    int32  `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"10"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
}

type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type KafkaConfig struct {
	// Empty broker list disables event publishing.
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"auth.events"`
}

type JWTConfig struct {
	SecretKey       string        `yaml:"secret_key" env:"JWT_SECRET_KEY"`
	Issuer          string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"debrief-auth"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"JWT_ACCESS_TOKEN_TTL" env-default:"24h"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"JWT_REFRESH_TOKEN_TTL" env-default:"168h"`
}

type LockoutConfig struct {
	MaxFailedAttempts int           `yaml:"max_failed_attempts" env:"LOCKOUT_MAX_FAILED_ATTEMPTS" env-default:"5"`
	LockoutDuration   time.Duration `yaml:"lockout_duration" env:"LOCKOUT_DURATION" env-default:"15m"`
}

type SecurityConfig struct {
	Lockout    LockoutConfig `yaml:"lockout"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"12"`
	// How long revoked refresh token rows are kept for reuse detection
	// before the cleanup job prunes them.
	RevokedTokenRetention time.Duration `yaml:"revoked_token_retention" env:"REVOKED_TOKEN_RETENTION" env-default:"720h"`
}

type MFAConfig struct {
	TOTPIssuerName string `yaml:"totp_issuer_name" env:"MFA_TOTP_ISSUER" env-default:"DeBrief"`
}

type CaptchaConfig struct {
	Enabled   bool   `yaml:"enabled" env:"CAPTCHA_ENABLED" env-default:"false"`
	SecretKey string `yaml:"secret_key" env:"CAPTCHA_SECRET_KEY"`
	VerifyURL string `yaml:"verify_url" env:"CAPTCHA_VERIFY_URL" env-default:"https://www.google.com/recaptcha/api/siteverify"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}
