package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	OCR    OCRConfig
	LLM    LLMConfig
	Jobs   JobsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr          string
	MaxUploadSize int64
	UploadDir     string
}

// OCRConfig holds text-extraction configuration.
type OCRConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Pdfinfo       string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	DocConverter  string // binary for legacy .doc files, e.g. "antiword"
	DPI           int
	PageWidth     int
	PageHeight    int
	MaxPages      int
	TempDir       string
	Timeout       time.Duration
}

// LLMConfig holds completion-service configuration.
type LLMConfig struct {
	APIKey        string
	BaseURL       string
	FastModel     string
	AccurateModel string
	MaxChars      int
	MaxTokens     int
	Timeout       time.Duration
}

// JobsConfig holds job registry configuration.
type JobsConfig struct {
	Store      string // "memory" | "sqlite"
	SqlitePath string
	MaxEntries int
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          getEnv("HTTP_ADDR", ":3000"),
			MaxUploadSize: int64(getEnvAsInt("MAX_UPLOAD_MB", 100)) << 20,
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		},
		OCR: OCRConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Pdfinfo:       getEnv("PDFINFO_BIN", "pdfinfo"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DocConverter:  getEnv("DOC_CONVERTER_BIN", ""),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			PageWidth:     getEnvAsInt("OCR_PAGE_WIDTH", 2480),
			PageHeight:    getEnvAsInt("OCR_PAGE_HEIGHT", 3508),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			TempDir:       getEnv("OCR_TEMP_DIR", "temp"),
			Timeout:       getEnvAsDuration("OCR_TIMEOUT", 5*time.Minute),
		},
		LLM: LLMConfig{
			APIKey:        getEnv("LLM_API_KEY", ""),
			BaseURL:       getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
			FastModel:     getEnv("LLM_FAST_MODEL", "gpt-4o-mini"),
			AccurateModel: getEnv("LLM_ACCURATE_MODEL", "gpt-4o"),
			MaxChars:      getEnvAsInt("LLM_MAX_CHARS", 180000),
			MaxTokens:     getEnvAsInt("LLM_MAX_TOKENS", 8000),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
		},
		Jobs: JobsConfig{
			Store:      getEnv("JOB_STORE", "memory"),
			SqlitePath: getEnv("JOB_STORE_PATH", "jobs.db"),
			MaxEntries: getEnvAsInt("JOB_MAX_ENTRIES", 1000),
		},
	}
}

// Validate checks required configuration values.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "LLM_API_KEY is required", nil)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", nil)
	}
	if c.Jobs.Store != "memory" && c.Jobs.Store != "sqlite" {
		return NewAppError("CONFIG_ERROR", "JOB_STORE must be memory or sqlite", nil)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
