// config предоставляет структуру конфигурации briefing-service
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Postgres PostgresConfig `yaml:"postgres"`
	S3       S3Config       `yaml:"s3"`
	LLM      LLMConfig      `yaml:"llm"`
	TTS      TTSConfig      `yaml:"tts"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

// HTTPConfig — сетевые настройки HTTP-сервера.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50084"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// PostgresConfig — настройки подключения к базе данных.
type PostgresConfig struct {
	URL string `yaml:"url" env:"POSTGRES" env-required:"true"`
}

// S3Config — настройки объектного хранилища для аудио.
type S3Config struct {
	Endpoint     string `yaml:"endpoint" env:"S3_ENDPOINT" env-required:"true"`
	RootUser     string `yaml:"root_user" env:"S3_ROOT_USER" env-required:"true"`
	RootPassword string `yaml:"root_password" env:"S3_ROOT_PASSWORD" env-required:"true"`
	Bucket       string `yaml:"bucket" env:"S3_BUCKET" env-default:"audio"`
	// PublicBaseURL — база публичных ссылок на загруженные объекты.
	PublicBaseURL string `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL" env-required:"true"`
}

// LLMConfig — параметры сервиса генерации текста.
type LLMConfig struct {
	BaseURL string `yaml:"base_url" env:"LLM_BASE_URL" env-default:"https://api.anthropic.com"`
	APIKey  string `yaml:"api_key" env:"LLM_API_KEY" env-required:"true"`
	Model   string `yaml:"model" env:"LLM_MODEL" env-default:"claude-sonnet-4-20250514"`
	// MaxTokens — потолок длины ответа модели.
	MaxTokens int `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"3000"`
	// WebSearch — разрешить модели живой веб-поиск для обогащения фактов.
	WebSearch bool          `yaml:"web_search" env:"LLM_WEB_SEARCH" env-default:"true"`
	Timeout   time.Duration `yaml:"timeout" env:"LLM_TIMEOUT" env-default:"120s"`
}

// TTSConfig — параметры сервиса синтеза речи.
type TTSConfig struct {
	BaseURL string `yaml:"base_url" env:"TTS_BASE_URL" env-default:"https://api.elevenlabs.io"`
	APIKey  string `yaml:"api_key" env:"TTS_API_KEY" env-required:"true"`
	// DefaultVoice — голос по умолчанию, если категория не задаёт свой.
	DefaultVoice string `yaml:"default_voice" env:"TTS_DEFAULT_VOICE" env-default:"EXAVITQu4vr4xnSDxMaL"`
	// ChunkWordLimit — безопасная длина текста одного запроса в словах;
	// более длинный скрипт синтезируется по секциям.
	ChunkWordLimit int `yaml:"chunk_word_limit" env:"TTS_CHUNK_WORD_LIMIT" env-default:"800"`
	// ChunkDelay — пауза между посекционными запросами (rate limit).
	ChunkDelay time.Duration `yaml:"chunk_delay" env:"TTS_CHUNK_DELAY" env-default:"500ms"`
	Timeout    time.Duration `yaml:"timeout" env:"TTS_TIMEOUT" env-default:"120s"`
}

// PipelineConfig — параметры запусков пайплайна.
type PipelineConfig struct {
	// RunTimeout — жёсткий wall-clock лимит одного запуска.
	RunTimeout time.Duration `yaml:"run_timeout" env:"PIPELINE_RUN_TIMEOUT" env-default:"5m"`
	// FeedTimeout — лимит загрузки одной ленты.
	FeedTimeout time.Duration `yaml:"feed_timeout" env:"PIPELINE_FEED_TIMEOUT" env-default:"10s"`
	// ItemsPerFeed — сколько верхних записей берём из каждой ленты.
	ItemsPerFeed int `yaml:"items_per_feed" env:"PIPELINE_ITEMS_PER_FEED" env-default:"10"`
	// ScheduleTick — период проверки расписания автогенерации.
	ScheduleTick time.Duration `yaml:"schedule_tick" env:"PIPELINE_SCHEDULE_TICK" env-default:"1m"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	// Service — дедлайн обычных (не генерирующих) HTTP-запросов.
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		c, err := tryRead(envPath)
		if err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate — базовая валидация значений.
// Отсутствие обязательных кредов ловим на старте процесса,
// а не на первом внешнем вызове.
func (c *Config) validate() error {
	if c.Postgres.URL == "" {
		return fmt.Errorf("postgres.url is required")
	}
	if c.S3.Endpoint == "" || c.S3.Bucket == "" {
		return fmt.Errorf("s3.endpoint and s3.bucket are required")
	}
	if c.S3.PublicBaseURL == "" {
		return fmt.Errorf("s3.public_base_url is required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be > 0")
	}
	if c.TTS.APIKey == "" {
		return fmt.Errorf("tts.api_key is required")
	}
	if c.TTS.ChunkWordLimit <= 0 {
		return fmt.Errorf("tts.chunk_word_limit must be > 0")
	}
	if c.Pipeline.RunTimeout < time.Minute {
		return fmt.Errorf("pipeline.run_timeout must be at least 1m")
	}
	if c.Pipeline.FeedTimeout <= 0 {
		return fmt.Errorf("pipeline.feed_timeout must be > 0")
	}
	if c.Pipeline.ItemsPerFeed <= 0 {
		return fmt.Errorf("pipeline.items_per_feed must be > 0")
	}
	return nil
}
