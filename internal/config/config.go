package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/types"
)

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Cache     CacheConfig     `toml:"cache"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Admin     AdminConfig     `toml:"admin"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Booking   BookingConfig   `toml:"booking"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки хранилища
type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | sqlite | memory
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	Path            string `toml:"path"` // файл SQLite
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	Migrate         bool   `toml:"migrate"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// CacheConfig настройки кэша доступности (Redis)
type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
	KeyPrefix  string `toml:"key_prefix"`
}

// RateLimitConfig ограничение частоты отправки бронирований с одного IP
type RateLimitConfig struct {
	Enabled           bool `toml:"enabled"`
	RequestsPerMinute int  `toml:"requests_per_minute"`
	Burst             int  `toml:"burst"`
}

// AdminConfig доступ к административным эндпоинтам
type AdminConfig struct {
	Secret string `toml:"secret"`
}

// CatalogConfig шаблон слотов
type CatalogConfig struct {
	Slots               []string            `toml:"slots"`
	Weekdays            map[string][]string `toml:"weekdays"` // monday..sunday, пустой список - выходной
	SlotDurationMinutes int                 `toml:"slot_duration_minutes"`
	Timezone            string              `toml:"timezone"`
}

// BookingConfig правила приема бронирований
type BookingConfig struct {
	InitialStatus string `toml:"initial_status"` // pending | confirmed
	HorizonDays   int    `toml:"horizon_days"`   // 0 = без ограничения
}

// Load загружает конфигурацию из TOML файла
// Перед этим подхватывается .env (если есть), переменные окружения BOOKING_*
// перекрывают значения файла
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	strVars := map[string]*string{
		"BOOKING_ADMIN_SECRET": &c.Admin.Secret,
		"BOOKING_DB_DRIVER":    &c.Database.Driver,
		"BOOKING_DB_HOST":      &c.Database.Host,
		"BOOKING_DB_USER":      &c.Database.User,
		"BOOKING_DB_PASSWORD":  &c.Database.Password,
		"BOOKING_DB_NAME":      &c.Database.DBName,
		"BOOKING_DB_PATH":      &c.Database.Path,
		"BOOKING_REDIS_ADDR":   &c.Cache.Addr,
		"BOOKING_LOG_LEVEL":    &c.Logs.Level,
	}
	for name, target := range strVars {
		if v, ok := os.LookupEnv(name); ok {
			*target = v
		}
	}

	intVars := map[string]*int{
		"BOOKING_DB_PORT":   &c.Database.Port,
		"BOOKING_HTTP_PORT": &c.Server.HTTPPort,
	}
	for name, target := range intVars {
		v, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer: %v", ErrInvalidConfig, name, err)
		}
		*target = n
	}

	return nil
}

func (c *Config) setDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "salon-booking"
	}

	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 5
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "availability"
	}

	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 3
	}

	if c.Catalog.SlotDurationMinutes == 0 {
		c.Catalog.SlotDurationMinutes = domain.DefaultSlotDurationMinutes
	}
	if c.Catalog.Timezone == "" {
		c.Catalog.Timezone = "UTC"
	}

	if c.Booking.InitialStatus == "" {
		c.Booking.InitialStatus = string(domain.DefaultInitialStatus)
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres", ErrInvalidConfig)
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for sqlite", ErrInvalidConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown database.driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	if c.Admin.Secret == "" {
		return fmt.Errorf("%w: admin.secret is required (or BOOKING_ADMIN_SECRET)", ErrInvalidConfig)
	}

	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("%w: cache.addr is required when cache is enabled", ErrInvalidConfig)
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("%w: cache.ttl_seconds must not be negative", ErrInvalidConfig)
	}

	if _, err := c.Catalog.DefaultSlots(); err != nil {
		return err
	}
	if _, err := c.Catalog.WeekdaySlots(); err != nil {
		return err
	}
	if _, err := c.Catalog.Location(); err != nil {
		return err
	}
	if c.Catalog.SlotDurationMinutes < domain.MinServiceDuration || c.Catalog.SlotDurationMinutes > domain.MaxServiceDuration {
		return fmt.Errorf("%w: catalog.slot_duration_minutes must be in [%d, %d]",
			ErrInvalidConfig, domain.MinServiceDuration, domain.MaxServiceDuration)
	}

	if _, err := c.Booking.Status(); err != nil {
		return err
	}
	if c.Booking.HorizonDays < 0 {
		return fmt.Errorf("%w: booking.horizon_days must not be negative", ErrInvalidConfig)
	}

	return nil
}

// DSN строка подключения для database/sql
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", d.Path)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// DefaultSlots разобранные метки по умолчанию
func (c CatalogConfig) DefaultSlots() ([]types.TimeString, error) {
	return parseLabels("catalog.slots", c.Slots)
}

// WeekdaySlots переопределения шаблона по дням недели
func (c CatalogConfig) WeekdaySlots() (map[time.Weekday][]types.TimeString, error) {
	result := make(map[time.Weekday][]types.TimeString, len(c.Weekdays))
	for name, labels := range c.Weekdays {
		day, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: catalog.weekdays: unknown weekday %q", ErrInvalidConfig, name)
		}
		parsed, err := parseLabels("catalog.weekdays."+name, labels)
		if err != nil {
			return nil, err
		}
		result[day] = parsed
	}
	return result, nil
}

// Location часовой пояс салона, в котором определяется "сегодня"
func (c CatalogConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog.timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Status начальный статус бронирования
func (b BookingConfig) Status() (domain.BookingStatus, error) {
	status := domain.BookingStatus(b.InitialStatus)
	if status != domain.StatusPending && status != domain.StatusConfirmed {
		return "", fmt.Errorf("%w: booking.initial_status must be pending or confirmed", ErrInvalidConfig)
	}
	return status, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseLabels(field string, raw []string) ([]types.TimeString, error) {
	result := make([]types.TimeString, 0, len(raw))
	for _, s := range raw {
		label, err := types.NewTimeStringFromString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, field, err)
		}
		result = append(result, label)
	}
	return result, nil
}
