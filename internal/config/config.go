package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-CalendarBridge/internal/domain"
)

// Переменные окружения, которые перекрывают значения из config.toml
const (
	EnvConfigPath = "CONFIG_PATH"
	EnvToken      = "GHL_TOKEN"
	EnvCalendarID = "CALENDAR_ID"
	EnvLocationID = "LOCATION_ID"
	EnvBaseURL    = "GHL_BASE_URL"
	EnvPort       = "PORT"
)

const (
	DefaultConfigPath = "config.toml"
	DefaultBaseURL    = "https://services.leadconnectorhq.com"
	DefaultAPIVersion = "2021-07-28"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	LeadConnector LeadConnectorConfig `toml:"leadconnector"`
	Availability  AvailabilityConfig  `toml:"availability"`
	Booking       BookingConfig       `toml:"booking"`
	CORS          CORSConfig          `toml:"cors"`
	RateLimit     RateLimitConfig     `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// LeadConnectorConfig параметры удалённого сервиса расписаний
type LeadConnectorConfig struct {
	BaseURL    string `toml:"base_url"`
	APIVersion string `toml:"api_version"`
	Token      string `toml:"token"`
	CalendarID string `toml:"calendar_id"`
	LocationID string `toml:"location_id"`
	Timeout    int    `toml:"timeout"` // секунды, на каждый вызов
	// MaxResponseBytes предел тела ответа, 0 = значение клиента по умолчанию
	MaxResponseBytes int64 `toml:"max_response_bytes"`
}

// AvailabilityConfig параметры поиска свободных слотов
type AvailabilityConfig struct {
	Timezone           string         `toml:"timezone"`
	DefaultDays        int            `toml:"default_days"`
	MaxSlots           int            `toml:"max_slots"`
	DiagnosticMaxSlots int            `toml:"diagnostic_max_slots"`
	AllowUnfiltered    bool           `toml:"allow_unfiltered"`
	Windows            []WindowConfig `toml:"windows"`
}

// WindowConfig окно рабочего времени: [start, end) в формате HH:MM
type WindowConfig struct {
	Weekdays []string `toml:"weekdays"`
	Start    string   `toml:"start"`
	End      string   `toml:"end"`
}

type BookingConfig struct {
	DefaultTitle string `toml:"default_title"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
	// TrustedProxies IP или CIDR, от которых принимается X-Forwarded-For
	TrustedProxies []string `toml:"trusted_proxies"`
	IdleTTL        int      `toml:"idle_ttl"` // секунды, после которых лимитер IP удаляется
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        3000,
			ReadTimeout:     15,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "calendar-bridge",
		},
		LeadConnector: LeadConnectorConfig{
			BaseURL:    DefaultBaseURL,
			APIVersion: DefaultAPIVersion,
			Timeout:    10,
		},
		Availability: AvailabilityConfig{
			Timezone:           domain.DefaultTimezone,
			DefaultDays:        domain.DefaultRangeDays,
			MaxSlots:           domain.DefaultMaxSlots,
			DiagnosticMaxSlots: domain.DefaultDiagnosticMaxSlots,
		},
		Booking: BookingConfig{
			DefaultTitle: domain.DefaultAppointmentTitle,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
			RPS:     10,
			Burst:   20,
			IdleTTL: 600,
		},
	}
}

// Load загружает конфигурацию: значения по умолчанию, затем TOML-файл (если есть),
// затем переменные окружения (.env подхватывается, если присутствует)
func Load(path string) (*Config, error) {
	// .env не обязателен
	_ = godotenv.Load()

	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		path = envPath
	}

	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvToken); v != "" {
		c.LeadConnector.Token = v
	}
	if v := os.Getenv(EnvCalendarID); v != "" {
		c.LeadConnector.CalendarID = v
	}
	if v := os.Getenv(EnvLocationID); v != "" {
		c.LeadConnector.LocationID = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.LeadConnector.BaseURL = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number: %v", ErrInvalidConfig, EnvPort, err)
		}
		c.Server.HTTPPort = port
	}
	return nil
}

// Validate проверяет обязательные поля и корректность значений
func (c *Config) Validate() error {
	if c.LeadConnector.Token == "" {
		return fmt.Errorf("%w: leadconnector token is required (%s)", ErrInvalidConfig, EnvToken)
	}
	if c.LeadConnector.CalendarID == "" {
		return fmt.Errorf("%w: calendar id is required (%s)", ErrInvalidConfig, EnvCalendarID)
	}
	if c.LeadConnector.LocationID == "" {
		return fmt.Errorf("%w: location id is required (%s)", ErrInvalidConfig, EnvLocationID)
	}
	if c.LeadConnector.BaseURL == "" {
		return fmt.Errorf("%w: leadconnector base_url is required", ErrInvalidConfig)
	}
	if c.LeadConnector.MaxResponseBytes < 0 {
		return fmt.Errorf("%w: leadconnector max_response_bytes must not be negative", ErrInvalidConfig)
	}
	if c.LeadConnector.Timeout <= 0 {
		return fmt.Errorf("%w: leadconnector timeout must be positive", ErrInvalidConfig)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: http_port out of range: %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Availability.DefaultDays < 0 {
		return fmt.Errorf("%w: default_days must not be negative", ErrInvalidConfig)
	}
	if c.Availability.MaxSlots <= 0 || c.Availability.DiagnosticMaxSlots <= 0 {
		return fmt.Errorf("%w: max_slots and diagnostic_max_slots must be positive", ErrInvalidConfig)
	}
	if _, err := c.Availability.Location(); err != nil {
		return err
	}
	if _, err := c.Availability.PolicyWindows(); err != nil {
		return err
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit rps and burst must be positive", ErrInvalidConfig)
	}
	if c.RateLimit.IdleTTL < 0 {
		return fmt.Errorf("%w: rate_limit idle_ttl must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Location загружает временную зону доступности
func (a AvailabilityConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q: %v", ErrInvalidConfig, a.Timezone, err)
	}
	return loc, nil
}

// PolicyWindows окна политики слотов. Без секции windows — пн–пт 09–13/15–18.
func (a AvailabilityConfig) PolicyWindows() (map[time.Weekday][]domain.Window, error) {
	if len(a.Windows) == 0 {
		return domain.DefaultPolicyWindows(), nil
	}

	result := make(map[time.Weekday][]domain.Window)
	for i, wc := range a.Windows {
		start, err := parseClock(wc.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: windows[%d].start: %v", ErrInvalidConfig, i, err)
		}
		end, err := parseClock(wc.End)
		if err != nil {
			return nil, fmt.Errorf("%w: windows[%d].end: %v", ErrInvalidConfig, i, err)
		}
		if start >= end {
			return nil, fmt.Errorf("%w: windows[%d]: start must be before end", ErrInvalidConfig, i)
		}
		if len(wc.Weekdays) == 0 {
			return nil, fmt.Errorf("%w: windows[%d]: weekdays are required", ErrInvalidConfig, i)
		}
		for _, name := range wc.Weekdays {
			day, err := parseWeekday(name)
			if err != nil {
				return nil, fmt.Errorf("%w: windows[%d]: %v", ErrInvalidConfig, i, err)
			}
			result[day] = append(result[day], domain.Window{Start: start, End: end})
		}
	}
	return result, nil
}

// SlotPolicy собирает политику слотов из конфигурации
func (a AvailabilityConfig) SlotPolicy() (*domain.SlotPolicy, error) {
	loc, err := a.Location()
	if err != nil {
		return nil, err
	}
	windows, err := a.PolicyWindows()
	if err != nil {
		return nil, err
	}
	return domain.NewSlotPolicy(loc, windows)
}

// parseClock "HH:MM" -> минуты от полуночи, допускается "24:00"
func parseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" {
		return 24 * 60, nil
	}
	t, err := time.Parse(domain.TimeFormat, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monday", "mon":
		return time.Monday, nil
	case "tuesday", "tue":
		return time.Tuesday, nil
	case "wednesday", "wed":
		return time.Wednesday, nil
	case "thursday", "thu":
		return time.Thursday, nil
	case "friday", "fri":
		return time.Friday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	case "sunday", "sun":
		return time.Sunday, nil
	default:
		return time.Sunday, fmt.Errorf("unknown weekday %q", s)
	}
}
