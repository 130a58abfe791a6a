package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"ems.com/ems/infrastructure/devops"
	"ems.com/ems/security"
	"ems.com/ems/utils"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env          string             `yaml:"env" env:"EMS_ENV" env-default:"local"`
	HTTP         HTTPConfig         `yaml:"http"`
	Log          LogConfig          `yaml:"log"`
	Database     DatabaseConfig     `yaml:"database"`
	Auth         AuthConfig         `yaml:"auth"`
	Attendance   AttendanceConfig   `yaml:"attendance"`
	Notification NotificationConfig `yaml:"notification"`
	Report       ReportConfig       `yaml:"report"`
	AWS          AWSConfig          `yaml:"aws"`
}

type HTTPConfig struct {
	Address string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8090"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

type DatabaseConfig struct {
	Driver         string `yaml:"driver" env:"DB_DRIVER" env-default:"mysql"`
	DSN            string `yaml:"dsn" env:"DB_DSN"`
	MaxConnections int    `yaml:"maxConnections" env:"DB_MAX_CONNECTIONS" env-default:"10"`
	LogLevel       string `yaml:"logLevel" env:"DB_LOG_LEVEL" env-default:"warn"`
	AutoMigrate    bool   `yaml:"autoMigrate" env:"DB_AUTO_MIGRATE" env-default:"false"`
}

type AuthConfig struct {
	// Secret is the base64 encoded HS256 signing key.
	Secret   string        `yaml:"secret" env:"AUTH_SECRET"`
	TokenTTL time.Duration `yaml:"tokenTTL" env:"AUTH_TOKEN_TTL" env-default:"12h"`
}

type AttendanceConfig struct {
	Timezone    string        `yaml:"timezone" env:"ATTENDANCE_TIMEZONE"`
	ShiftStart  string        `yaml:"shiftStart" env:"ATTENDANCE_SHIFT_START"`
	ShiftFinish string        `yaml:"shiftFinish" env:"ATTENDANCE_SHIFT_FINISH"`
	LateGrace   time.Duration `yaml:"lateGrace" env:"ATTENDANCE_LATE_GRACE" env-default:"10m"`
	MaxAttempts int           `yaml:"maxAttempts" env:"ATTENDANCE_MAX_ATTEMPTS" env-default:"5"`
}

type NotificationConfig struct {
	Enabled           bool   `yaml:"enabled" env:"NOTIFY_ENABLED" env-default:"false"`
	EmailFrom         string `yaml:"emailFrom" env:"NOTIFY_EMAIL_FROM"`
	SlackToken        string `yaml:"slackToken" env:"SLACK_TOKEN"`
	SlackInfoChannel  string `yaml:"slackInfoChannel" env:"SLACK_INFO_CHANNEL"`
	SlackErrorChannel string `yaml:"slackErrorChannel" env:"SLACK_ERROR_CHANNEL"`
}

type ReportConfig struct {
	Bucket string `yaml:"bucket" env:"REPORT_BUCKET"`
	Prefix string `yaml:"prefix" env:"REPORT_PREFIX" env-default:"attendance/daily"`
}

type AWSConfig struct {
	// Parameter names an SSM SecureString holding devops.Parameters.
	Parameter string `yaml:"parameter" env:"AWS_PARAMETER"`
}

// Load reads .env when present, then the yaml file at path (or CONFIG_PATH),
// then environment overrides. With no file only the environment is used.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from environment: %w", err)
	}
	return &cfg, nil
}

// ApplyParameters overlays the secrets kept in SSM. The database entry is
// matched by environment name.
func (c *Config) ApplyParameters(p *devops.Parameters) {
	if entry, ok := p.Database(c.Env); ok {
		c.Database.Driver = "mysql"
		c.Database.DSN = entry.GetDSN("")
	}
	if p.SigningSecret != "" {
		c.Auth.Secret = p.SigningSecret
	}
	if p.SlackToken != "" {
		c.Notification.SlackToken = p.SlackToken
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}
	if _, err := c.SigningSecret(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.Notification.Enabled && c.Notification.EmailFrom == "" && c.Notification.SlackToken == "" {
		errs = append(errs, errors.New("notifications enabled without an email sender or slack token"))
	}
	return errors.Join(errs...)
}

func (c *Config) SigningSecret() ([]byte, error) {
	return security.DecodeSecret(c.Auth.Secret)
}

func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Attendance.Timezone)
}
