package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"ordertracking/internal/jobs"
	"ordertracking/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const (
	defaultHTTPPort          = "8080"
	defaultDBSslMode         = "disable"
	defaultERPRequestTimeout = 30 * time.Second
	defaultERPFetchTimeout   = 10 * time.Minute
	defaultSystemOperatorID  = 1
	defaultSyncTimezone      = "America/Argentina/Buenos_Aires"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	ERPBaseURL        string
	ERPUsername       string
	ERPPassword       string
	ERPCompanyID      int
	ERPCompanyName    string
	ERPWarehouseID    int
	ERPBranchID       int
	ERPRequestTimeout time.Duration
	ERPFetchTimeout   time.Duration

	AlertWebhookURL  string
	SystemOperatorID int64

	SyncEnabled           bool
	SyncTodaySchedule     string
	SyncYesterdaySchedule string
	SyncLocation          *time.Location

	LogLevel slog.Level
}

// LoadConfig reads the configuration through getenv, applies defaults and
// validates it. Every problem is reported at once.
func LoadConfig(getenv func(string) string) (Config, error) {
	r := envReader{getenv: getenv}

	cfg := Config{
		HTTPPort:   r.string("HTTP_PORT", defaultHTTPPort),
		DBHost:     r.required("DB_HOST"),
		DBPort:     r.required("DB_PORT"),
		DBUser:     r.required("DB_USER"),
		DBPassword: r.string("DB_PASSWORD", ""),
		DBName:     r.required("DB_NAME"),
		DBSslMode:  r.string("DB_SSLMODE", defaultDBSslMode),

		ERPBaseURL:        r.required("ERP_BASE_URL"),
		ERPUsername:       r.required("ERP_USERNAME"),
		ERPPassword:       r.required("ERP_PASSWORD"),
		ERPCompanyID:      r.int("ERP_COMPANY_ID"),
		ERPCompanyName:    r.required("ERP_COMPANY_NAME"),
		ERPWarehouseID:    r.int("ERP_WAREHOUSE_ID"),
		ERPBranchID:       r.int("ERP_BRANCH_ID"),
		ERPRequestTimeout: r.duration("ERP_REQUEST_TIMEOUT", defaultERPRequestTimeout),
		ERPFetchTimeout:   r.duration("ERP_FETCH_TIMEOUT", defaultERPFetchTimeout),

		AlertWebhookURL:  r.string("ALERT_WEBHOOK_URL", ""),
		SystemOperatorID: int64(r.intDefault("SYSTEM_OPERATOR_ID", defaultSystemOperatorID)),

		SyncEnabled:           r.bool("SYNC_ENABLED", true),
		SyncTodaySchedule:     r.schedule("SYNC_TODAY_SCHEDULE", jobs.DefaultTodaySchedule),
		SyncYesterdaySchedule: r.schedule("SYNC_YESTERDAY_SCHEDULE", jobs.DefaultYesterdaySchedule),
		SyncLocation:          r.location("SYNC_TIMEZONE", defaultSyncTimezone),

		LogLevel: r.level("LOG_LEVEL"),
	}

	if cfg.SystemOperatorID <= 0 {
		r.fail(errs.NewValueIsInvalidError("SYSTEM_OPERATOR_ID"))
	}

	if err := errors.Join(r.errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

type envReader struct {
	getenv func(string) string
	errs   []error
}

func (r *envReader) fail(err error) {
	r.errs = append(r.errs, err)
}

func (r *envReader) lookup(key string) string {
	return strings.TrimSpace(r.getenv(key))
}

func (r *envReader) string(key, fallback string) string {
	if v := r.lookup(key); v != "" {
		return v
	}
	return fallback
}

func (r *envReader) required(key string) string {
	v := r.lookup(key)
	if v == "" {
		r.fail(errs.NewValueIsRequiredError(key))
	}
	return v
}

func (r *envReader) int(key string) int {
	v := r.required(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(errs.NewValueIsInvalidErrorWithCause(key, err))
	}
	return n
}

func (r *envReader) intDefault(key string, fallback int) int {
	v := r.lookup(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(errs.NewValueIsInvalidErrorWithCause(key, err))
	}
	return n
}

func (r *envReader) bool(key string, fallback bool) bool {
	v := r.lookup(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(errs.NewValueIsInvalidErrorWithCause(key, err))
	}
	return b
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := r.lookup(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	if d <= 0 {
		r.fail(errs.NewValueIsInvalidErrorWithCause(key, fmt.Errorf("%s is not positive", d)))
	}
	return d
}

// schedule validates a cron expression with a seconds field.
func (r *envReader) schedule(key, fallback string) string {
	v := r.string(key, fallback)
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(v); err != nil {
		r.fail(errs.NewValueIsInvalidErrorWithCause(key, err))
	}
	return v
}

func (r *envReader) location(key, fallback string) *time.Location {
	loc, err := time.LoadLocation(r.string(key, fallback))
	if err != nil {
		r.fail(errs.NewValueIsInvalidErrorWithCause(key, err))
		return time.Local
	}
	return loc
}

func (r *envReader) level(key string) slog.Level {
	var level slog.Level
	v := r.lookup(key)
	if v == "" {
		return slog.LevelInfo
	}
	if err := level.UnmarshalText([]byte(v)); err != nil {
		r.fail(errs.NewValueIsInvalidErrorWithCause(key, err))
		return slog.LevelInfo
	}
	return level
}
