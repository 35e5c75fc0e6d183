// Package config загружает конфигурацию produtor-chat из YAML.
//
// Правило 2: все настройки в YAML с поддержкой ENV-переменных (${VAR}).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	Portal          PortalConfig    `yaml:"portal"`
	Session         SessionConfig   `yaml:"session"`
	S3              S3Config        `yaml:"s3"`
	Documents       DocumentsConfig `yaml:"documents"`
	ImageProcessing ImageProcConfig `yaml:"image_processing"`
	Geo             GeoConfig       `yaml:"geo"`
	Assistant       AssistantConfig `yaml:"assistant"`
	Flow            FlowConfig      `yaml:"flow"`
	UI              UIConfig        `yaml:"ui"`
	App             AppSpecific     `yaml:"app"`
}

// PortalConfig — параметры REST API бэкенда (аутентификация, реестр продавцов, документы).
type PortalConfig struct {
	BaseURL       string `yaml:"base_url"`       // Например "http://localhost:8000"
	RateLimit     int    `yaml:"rate_limit"`     // Запросов в минуту
	BurstLimit    int    `yaml:"burst_limit"`    // Burst для rate limiter
	RetryAttempts int    `yaml:"retry_attempts"` // Количество retry попыток
	Timeout       string `yaml:"timeout"`        // Timeout одного вызова (например, "30s")
}

// GetDefaults возвращает копию с дефолтными значениями для незаполненных полей.
func (c *PortalConfig) GetDefaults() PortalConfig {
	result := *c

	if result.BaseURL == "" {
		result.BaseURL = "http://localhost:8000"
	}
	if result.RateLimit == 0 {
		result.RateLimit = 60
	}
	if result.BurstLimit == 0 {
		result.BurstLimit = 5
	}
	if result.RetryAttempts == 0 {
		result.RetryAttempts = 3
	}
	if result.Timeout == "" {
		result.Timeout = "30s"
	}

	return result
}

// TimeoutDuration парсит Timeout. Пустое значение — 30s.
func (c PortalConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid portal.timeout format: %w", err)
	}
	return d, nil
}

// SessionConfig — где хранится сессия (аналог localStorage браузера).
type SessionConfig struct {
	Backend   string `yaml:"backend"`    // "memory", "sqlite" или "redis"
	Path      string `yaml:"path"`       // Файл SQLite (backend=sqlite)
	RedisAddr string `yaml:"redis_addr"` // host:port (backend=redis)
	RedisDB   int    `yaml:"redis_db"`
	Prefix    string `yaml:"prefix"` // Префикс ключей в Redis
}

// S3Config — настройки объектного хранилища для файлов документов.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"` // Поддерживает ${VAR}
	SecretKey string `yaml:"secret_key"` // Поддерживает ${VAR}
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled сообщает, что S3 настроен.
func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// DocumentsConfig — куда уходят файлы из чата документов.
type DocumentsConfig struct {
	// Upload: "none" (только локальная отметка), "s3" или "portal"
	Upload      string `yaml:"upload"`
	MaxFileSize int64  `yaml:"max_file_size"` // Байты, 0 = 10 MiB
	StartDir    string `yaml:"start_dir"`     // Начальная директория для выбора файла
}

// ImageProcConfig — настройки обработки изображений перед отправкой.
type ImageProcConfig struct {
	MaxWidth int `yaml:"max_width"`
	Quality  int `yaml:"quality"`
}

// GeoConfig — источник геолокации при регистрации.
type GeoConfig struct {
	Provider  string  `yaml:"provider"` // "none", "static", "denied"
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// AssistantConfig — LLM для кнопки "Ajuda" (опционально).
type AssistantConfig struct {
	Enabled   bool          `yaml:"enabled"`
	ModelName string        `yaml:"model_name"`
	APIKey    string        `yaml:"api_key"` // Поддерживает ${VAR}
	BaseURL   string        `yaml:"base_url"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// FlowConfig — задержки диалога.
type FlowConfig struct {
	RedirectDelay  time.Duration `yaml:"redirect_delay"`   // Пауза перед переходом на другой экран
	AutoLoginDelay time.Duration `yaml:"auto_login_delay"` // Пауза перед автологином после регистрации
}

// GetDefaults возвращает копию с дефолтными задержками (2s как в исходном портале).
func (c *FlowConfig) GetDefaults() FlowConfig {
	result := *c
	if result.RedirectDelay == 0 {
		result.RedirectDelay = 2 * time.Second
	}
	if result.AutoLoginDelay == 0 {
		result.AutoLoginDelay = 2 * time.Second
	}
	return result
}

// UIConfig — внешний вид TUI.
type UIConfig struct {
	ColorScheme string `yaml:"color_scheme"` // "default", "dark", "light"
	Title       string `yaml:"title"`
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug  bool   `yaml:"debug"`
	LogDir string `yaml:"log_dir"`
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(rawBytes)
}

// Parse разбирает YAML из памяти (используется Load и тестами).
func Parse(raw []byte) (*AppConfig, error) {
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(raw))

	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	cfg.Portal = cfg.Portal.GetDefaults()
	cfg.Flow = cfg.Flow.GetDefaults()
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = "memory"
	}
	if cfg.Documents.Upload == "" {
		cfg.Documents.Upload = "none"
	}
	if cfg.Documents.MaxFileSize == 0 {
		cfg.Documents.MaxFileSize = 10 << 20
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate проверяет согласованность секций.
func (c *AppConfig) validate() error {
	if _, err := c.Portal.TimeoutDuration(); err != nil {
		return err
	}

	switch c.Session.Backend {
	case "memory":
	case "sqlite":
		if c.Session.Path == "" {
			return fmt.Errorf("session.path is required for sqlite backend")
		}
	case "redis":
		if c.Session.RedisAddr == "" {
			return fmt.Errorf("session.redis_addr is required for redis backend")
		}
	default:
		return fmt.Errorf("unknown session.backend '%s'", c.Session.Backend)
	}

	switch c.Documents.Upload {
	case "none", "portal":
	case "s3":
		if !c.S3.Enabled() {
			return fmt.Errorf("s3.endpoint and s3.bucket are required for documents.upload=s3")
		}
	default:
		return fmt.Errorf("unknown documents.upload '%s'", c.Documents.Upload)
	}

	if c.Assistant.Enabled && c.Assistant.ModelName == "" {
		return fmt.Errorf("assistant.model_name is required when assistant is enabled")
	}

	return nil
}

// ConfigPathFinder ищет путь к config.yaml.
type ConfigPathFinder interface {
	FindConfigPath() string
}

// DefaultConfigPathFinder: флаг -config → ./config.yaml → директория бинарника.
type DefaultConfigPathFinder struct {
	// ConfigFlag - значение флага -config, если указан
	ConfigFlag string
}

// FindConfigPath находит путь к config.yaml.
func (f *DefaultConfigPathFinder) FindConfigPath() string {
	// 1. Флаг имеет приоритет
	if f.ConfigFlag != "" {
		return resolveAbsPath(f.ConfigFlag)
	}

	// 2. Текущая директория
	if _, err := os.Stat("config.yaml"); err == nil {
		return resolveAbsPath("config.yaml")
	}

	// 3. Директория бинарника
	if execPath, err := os.Executable(); err == nil {
		cfgPath := filepath.Join(filepath.Dir(execPath), "config.yaml")
		if _, err := os.Stat(cfgPath); err == nil {
			return cfgPath
		}
	}

	return resolveAbsPath("config.yaml")
}

func resolveAbsPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
