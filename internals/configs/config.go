package configs

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

type Config struct {
	Port           string
	DSN            string
	AutoMigrate    bool
	JWTSecret      string
	JWTTTL         time.Duration
	LogLevel       string
	Production     bool
	Timezone       *time.Location
	ReconcileCron  string
	CorsOrigins    []string
	RequestTimeout time.Duration
	SeedDir        string // demo data, empty = skip

	OrganizerEmail    string
	OrganizerPassword string
	OrganizerName     string
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" && os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Info("no .env file found, using system environment")
		} else {
			log.Info(".env file loaded")
		}
	} else {
		log.Info("running in production, using system environment")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// Load reads the environment into a Config. Missing optional keys fall back to defaults.
func Load() (*Config, error) {
	LoadEnv()

	cfg := &Config{
		Port:              GetEnv("PORT", "3000"),
		DSN:               GetEnv("DB_DSN"),
		JWTSecret:         GetEnv("JWT_SECRET"),
		LogLevel:          GetEnv("LOG_LEVEL", "info"),
		Production:        GetEnv("APP_ENV") == "production" || GetEnv("RAILWAY_ENVIRONMENT") != "",
		ReconcileCron:     GetEnv("RECONCILE_CRON", "@every 15m"),
		OrganizerEmail:    strings.ToLower(strings.TrimSpace(GetEnv("ORGANIZER_EMAIL"))),
		OrganizerPassword: GetEnv("ORGANIZER_PASSWORD"),
		OrganizerName:     GetEnv("ORGANIZER_NAME", "Organizer"),
		SeedDir:           GetEnv("SEED_DIR"),
	}

	if cfg.DSN == "" {
		cfg.DSN = BuildDSN(
			GetEnv("DB_USER"),
			GetEnv("DB_PASSWORD"),
			GetEnv("DB_HOST", "localhost"),
			GetEnv("DB_PORT", "5432"),
			GetEnv("DB_NAME"),
			GetEnv("DB_SSLMODE", "require"),
		)
	}

	var err error
	if cfg.AutoMigrate, err = strconv.ParseBool(GetEnv("DB_AUTO_MIGRATE", "false")); err != nil {
		return nil, fmt.Errorf("DB_AUTO_MIGRATE: %w", err)
	}
	if cfg.JWTTTL, err = time.ParseDuration(GetEnv("JWT_TTL", "12h")); err != nil {
		return nil, fmt.Errorf("JWT_TTL: %w", err)
	}
	if cfg.RequestTimeout, err = time.ParseDuration(GetEnv("REQUEST_TIMEOUT", "5s")); err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}
	if cfg.Timezone, err = time.LoadLocation(GetEnv("APP_TIMEZONE", "Europe/Paris")); err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	for _, o := range strings.Split(GetEnv("CORS_ORIGINS", "http://localhost:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CorsOrigins = append(cfg.CorsOrigins, o)
		}
	}

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set, organizer routes will reject every request")
	}
	return cfg, nil
}

// BuildDSN assembles a postgres URL; user and password are escaped so
// reserved characters in credentials survive.
func BuildDSN(user, password, host, port, name, sslmode string) string {
	q := url.Values{}
	q.Set("sslmode", sslmode)
	q.Set("application_name", "volunteerhub")
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// =======================
// LOGGER
// =======================
func SetupLogger(cfg *Config) {
	if cfg.Production {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
	// ParameterizedQueries keeps bind values (registration tokens, emails) out of logged SQL.
	ParameterizedQueries bool
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold:        200 * time.Millisecond,
		LogLevel:             gormLogger.Warn,
		ParameterizedQueries: true,
	}
}

// ParamsFilter is called by gorm before it renders SQL for Trace.
func (l *GormLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.ParameterizedQueries {
		return sql, nil
	}
	return sql, params
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := log.Fields{
		"file":    utils.FileWithLineNum(),
		"elapsed": elapsed.String(),
		"rows":    rows,
	}

	switch {
	case err != nil && !isRecordNotFound(err) && l.LogLevel >= gormLogger.Error:
		log.WithFields(fields).WithError(err).Error(sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.WithFields(fields).Warn("slow sql: " + sql)
	case l.LogLevel >= gormLogger.Info:
		log.WithFields(fields).Debug(sql)
	}
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
