package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"streamvault_agent/internal/models"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	LocalENV = "local"
	ProdENV  = "prod"
)

type Config struct {
	Env      string
	LogLevel string

	APIURL   string
	WSURL    string
	APIToken string

	AgentAddr   string
	CORSOrigins []string

	DBDriver string
	DBConn   string

	RedisAddr string

	TelegramToken  string
	TelegramChatID int64

	NotificationMax        int
	NotificationHistoryMax int
	NotificationTTL        time.Duration

	ResyncInterval    time.Duration
	MissPolicy        string
	RefetchAfterApply bool
}

// Load reads .env when present and assembles the config from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}

	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Env:       valueOr(getenv("CURRENT_ENV"), LocalENV),
		LogLevel:  getenv("LOG_LEVEL"),
		APIURL:    strings.TrimRight(getenv("STREAMVAULT_API_URL"), "/"),
		WSURL:     getenv("STREAMVAULT_WS_URL"),
		APIToken:  getenv("STREAMVAULT_API_TOKEN"),
		AgentAddr: valueOr(getenv("AGENT_ADDR"), "localhost:8084"),
		DBDriver:  valueOr(getenv("DB_DRIVER"), "sqlite"),
		DBConn:    valueOr(getenv("DB_CONN"), "streamvault_agent.db"),
		RedisAddr: getenv("REDIS_ADDR"),

		TelegramToken: getenv("TELEGRAM_API_TOKEN"),
		MissPolicy:    valueOr(getenv("MISS_POLICY"), "ignore"),
	}

	switch cfg.Env {
	case LocalENV, ProdENV:
	default:
		return nil, errors.Errorf("unknown env: %s", cfg.Env)
	}

	if cfg.APIURL == "" {
		return nil, errors.New("STREAMVAULT_API_URL is required")
	}

	for _, origin := range strings.Split(getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if cfg.WSURL == "" {
		cfg.WSURL = deriveWSURL(cfg.APIURL)
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, errors.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}

	switch cfg.MissPolicy {
	case "ignore", "refetch":
	default:
		return nil, errors.Errorf("unsupported MISS_POLICY: %s", cfg.MissPolicy)
	}

	var err error

	if cfg.TelegramChatID, err = int64Or(getenv("TELEGRAM_CHAT_ID"), 0); err != nil {
		return nil, errors.Wrap(err, "TELEGRAM_CHAT_ID")
	}
	if cfg.NotificationMax, err = intOr(getenv("NOTIFICATION_MAX"), models.DefaultNotificationMax); err != nil {
		return nil, errors.Wrap(err, "NOTIFICATION_MAX")
	}
	if cfg.NotificationHistoryMax, err = intOr(getenv("NOTIFICATION_HISTORY_MAX"), models.DefaultNotificationHistoryMax); err != nil {
		return nil, errors.Wrap(err, "NOTIFICATION_HISTORY_MAX")
	}
	if cfg.NotificationTTL, err = durationOr(getenv("NOTIFICATION_TTL"), models.DefaultNotificationTTL); err != nil {
		return nil, errors.Wrap(err, "NOTIFICATION_TTL")
	}
	if cfg.ResyncInterval, err = durationOr(getenv("RESYNC_INTERVAL"), time.Minute); err != nil {
		return nil, errors.Wrap(err, "RESYNC_INTERVAL")
	}
	if v := getenv("REFETCH_AFTER_APPLY"); v != "" {
		if cfg.RefetchAfterApply, err = strconv.ParseBool(v); err != nil {
			return nil, errors.Wrap(err, "REFETCH_AFTER_APPLY")
		}
	}

	if cfg.NotificationMax < 1 {
		return nil, errors.New("NOTIFICATION_MAX must be positive")
	}

	return cfg, nil
}

// ConfigureLogger sets the logrus level and formatter for the environment.
func (c *Config) ConfigureLogger(level string) {
	if c.Env == ProdENV {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(valueOr(level, "info"))
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func deriveWSURL(apiURL string) string {
	switch {
	case strings.HasPrefix(apiURL, "https://"):
		return "wss://" + strings.TrimPrefix(apiURL, "https://") + "/ws"
	case strings.HasPrefix(apiURL, "http://"):
		return "ws://" + strings.TrimPrefix(apiURL, "http://") + "/ws"
	}
	return apiURL + "/ws"
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func int64Or(v string, def int64) (int64, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func durationOr(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	return time.ParseDuration(v)
}
