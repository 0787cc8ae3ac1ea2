// Package config loads imagetext configuration.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file, then environment variables. Environment variables always win so that
// container deployments can override a checked-in file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/imagetext/internal/logger"
)

// Config holds the complete process configuration.
type Config struct {
	OCR       OCRConfig        `yaml:"ocr"`
	Segment   SegmentConfig    `yaml:"segment"`
	Language  LanguageConfig   `yaml:"language"`
	Translate TranslateConfig  `yaml:"translate"`
	Summarize SummarizeConfig  `yaml:"summarize"`
	Storage   StorageConfig    `yaml:"storage"`
	Queue     QueueConfig      `yaml:"queue"`
	Log       logger.LogConfig `yaml:"log"`
}

// OCRConfig selects and tunes the text-recognition backend.
type OCRConfig struct {
	Backend       string `yaml:"backend"`        // tesseract, gosseract, vision
	TesseractPath string `yaml:"tesseract_path"` // executable used by the tesseract backend
	Language      string `yaml:"language"`       // tesseract language code, e.g. "eng"
	PageSegMode   int    `yaml:"psm"`
	// CredentialsFile authenticates the vision backend. Empty means
	// application default credentials.
	CredentialsFile string `yaml:"credentials_file"`
}

// SegmentConfig tunes dilation and region extraction.
type SegmentConfig struct {
	KernelWidth  int    `yaml:"kernel_width"`
	KernelHeight int    `yaml:"kernel_height"`
	Iterations   int    `yaml:"iterations"`
	Order        string `yaml:"order"` // reading, discovery
	MinArea      int    `yaml:"min_area"`
	Padding      int    `yaml:"padding"`
}

// LanguageConfig tunes the language identifier.
type LanguageConfig struct {
	Candidates []string `yaml:"candidates"` // ISO 639-1 codes; empty means all
	Primary    string   `yaml:"primary"`    // short text resolves to this language
	MinLetters int      `yaml:"min_letters"`
}

// TranslateConfig configures the translation provider.
type TranslateConfig struct {
	CredentialsFile string        `yaml:"credentials_file"`
	Timeout         time.Duration `yaml:"timeout"`
}

// SummarizeConfig configures the summarization provider.
type SummarizeConfig struct {
	APIKey    string        `yaml:"api_key"`
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	MinTokens int           `yaml:"min_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// StorageConfig configures history persistence and the result cache.
type StorageConfig struct {
	DatabaseURL string        `yaml:"database_url"`
	RedisURL    string        `yaml:"redis_url"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
	UploadDir   string        `yaml:"upload_dir"`
}

// QueueConfig configures the asynchronous worker.
type QueueConfig struct {
	Name        string `yaml:"name"`
	Concurrency int    `yaml:"concurrency"`
}

// Default returns the configuration used when no file or environment is present.
func Default() *Config {
	return &Config{
		OCR: OCRConfig{
			Backend:       "tesseract",
			TesseractPath: "tesseract",
			Language:      "eng",
			PageSegMode:   6,
		},
		Segment: SegmentConfig{
			KernelWidth:  5,
			KernelHeight: 5,
			Iterations:   1,
			Order:        "reading",
			MinArea:      0,
			Padding:      2,
		},
		Language: LanguageConfig{
			Candidates: []string{"en", "fr", "de", "es", "it", "pt", "nl"},
			Primary:    "en",
			MinLetters: 3,
		},
		Translate: TranslateConfig{
			Timeout: 30 * time.Second,
		},
		Summarize: SummarizeConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 130,
			MinTokens: 30,
			Timeout:   60 * time.Second,
		},
		Storage: StorageConfig{
			CacheTTL:  24 * time.Hour,
			UploadDir: "uploads",
		},
		Queue: QueueConfig{
			Name:        "imagetext",
			Concurrency: 4,
		},
		Log: logger.DefaultConfig(),
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.OCR.Backend = getEnv("IMAGETEXT_OCR_BACKEND", c.OCR.Backend)
	c.OCR.TesseractPath = getEnv("TESSERACT_PATH", c.OCR.TesseractPath)
	c.OCR.Language = getEnv("IMAGETEXT_OCR_LANGUAGE", c.OCR.Language)
	c.OCR.PageSegMode = getEnvInt("IMAGETEXT_OCR_PSM", c.OCR.PageSegMode)
	c.OCR.CredentialsFile = getEnv("IMAGETEXT_VISION_CREDENTIALS", c.OCR.CredentialsFile)

	c.Segment.KernelWidth = getEnvInt("IMAGETEXT_KERNEL_WIDTH", c.Segment.KernelWidth)
	c.Segment.KernelHeight = getEnvInt("IMAGETEXT_KERNEL_HEIGHT", c.Segment.KernelHeight)
	c.Segment.Iterations = getEnvInt("IMAGETEXT_DILATE_ITERATIONS", c.Segment.Iterations)
	c.Segment.Order = getEnv("IMAGETEXT_REGION_ORDER", c.Segment.Order)
	c.Segment.MinArea = getEnvInt("IMAGETEXT_MIN_REGION_AREA", c.Segment.MinArea)
	c.Segment.Padding = getEnvInt("IMAGETEXT_CROP_PADDING", c.Segment.Padding)

	if v := os.Getenv("IMAGETEXT_LANGUAGES"); v != "" {
		c.Language.Candidates = splitList(v)
	}
	c.Language.Primary = getEnv("IMAGETEXT_LANGUAGE_PRIMARY", c.Language.Primary)
	c.Language.MinLetters = getEnvInt("IMAGETEXT_LANGUAGE_MIN_LETTERS", c.Language.MinLetters)

	c.Translate.CredentialsFile = getEnv("GOOGLE_APPLICATION_CREDENTIALS", c.Translate.CredentialsFile)
	c.Translate.Timeout = getEnvDuration("IMAGETEXT_TRANSLATE_TIMEOUT", c.Translate.Timeout)

	c.Summarize.APIKey = getEnv("OPENAI_API_KEY", c.Summarize.APIKey)
	c.Summarize.BaseURL = getEnv("OPENAI_BASE_URL", c.Summarize.BaseURL)
	c.Summarize.Model = getEnv("IMAGETEXT_SUMMARY_MODEL", c.Summarize.Model)
	c.Summarize.MaxTokens = getEnvInt("IMAGETEXT_SUMMARY_MAX_TOKENS", c.Summarize.MaxTokens)
	c.Summarize.MinTokens = getEnvInt("IMAGETEXT_SUMMARY_MIN_TOKENS", c.Summarize.MinTokens)
	c.Summarize.Timeout = getEnvDuration("IMAGETEXT_SUMMARY_TIMEOUT", c.Summarize.Timeout)

	c.Storage.DatabaseURL = getEnv("DATABASE_URL", c.Storage.DatabaseURL)
	c.Storage.RedisURL = getEnv("REDIS_URL", c.Storage.RedisURL)
	c.Storage.CacheTTL = getEnvDuration("IMAGETEXT_CACHE_TTL", c.Storage.CacheTTL)
	c.Storage.UploadDir = getEnv("IMAGETEXT_UPLOAD_DIR", c.Storage.UploadDir)

	c.Queue.Name = getEnv("IMAGETEXT_QUEUE", c.Queue.Name)
	c.Queue.Concurrency = getEnvInt("WORKER_CONCURRENCY", c.Queue.Concurrency)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.Log.Output = getEnv("LOG_OUTPUT", c.Log.Output)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	switch c.OCR.Backend {
	case "tesseract", "gosseract", "vision":
	default:
		errs = append(errs, fmt.Errorf("ocr.backend must be tesseract, gosseract or vision, got %q", c.OCR.Backend))
	}
	if c.OCR.Backend == "tesseract" && c.OCR.TesseractPath == "" {
		errs = append(errs, errors.New("ocr.tesseract_path is required for the tesseract backend"))
	}
	if c.Segment.KernelWidth < 1 || c.Segment.KernelHeight < 1 {
		errs = append(errs, fmt.Errorf("segment kernel must be at least 1x1, got %dx%d",
			c.Segment.KernelWidth, c.Segment.KernelHeight))
	}
	if c.Segment.Iterations < 1 {
		errs = append(errs, fmt.Errorf("segment.iterations must be >= 1, got %d", c.Segment.Iterations))
	}
	switch c.Segment.Order {
	case "reading", "discovery":
	default:
		errs = append(errs, fmt.Errorf("segment.order must be reading or discovery, got %q", c.Segment.Order))
	}
	if c.Segment.MinArea < 0 || c.Segment.Padding < 0 {
		errs = append(errs, errors.New("segment.min_area and segment.padding must not be negative"))
	}
	if c.Language.MinLetters < 1 {
		errs = append(errs, fmt.Errorf("language.min_letters must be >= 1, got %d", c.Language.MinLetters))
	}
	if c.Summarize.MinTokens < 0 || c.Summarize.MaxTokens < 1 || c.Summarize.MinTokens > c.Summarize.MaxTokens {
		errs = append(errs, fmt.Errorf("summarize tokens must satisfy 0 <= min <= max, got min=%d max=%d",
			c.Summarize.MinTokens, c.Summarize.MaxTokens))
	}
	if c.Translate.Timeout <= 0 || c.Summarize.Timeout <= 0 {
		errs = append(errs, errors.New("provider timeouts must be positive"))
	}
	if c.Queue.Concurrency < 1 || c.Queue.Concurrency > 100 {
		errs = append(errs, fmt.Errorf("queue.concurrency must be between 1 and 100, got %d", c.Queue.Concurrency))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
