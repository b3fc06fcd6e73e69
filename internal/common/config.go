package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	OCR     OCRConfig
	Store   StoreConfig
	Extract ExtractConfig
}

// OCRConfig holds OCR-engine configuration.
type OCRConfig struct {
	Tesseract        string
	Pdftotext        string
	Pdftoppm         string
	Language         string
	TessdataDir      string
	HeicConverter    string
	DPI              int
	PSM              int
	OEM              int
	MaxPages         int
	TSVConfidence    bool
	ArtifactCacheDir string
	Timeout          time.Duration
}

// StoreConfig holds scan-history store configuration.
type StoreConfig struct {
	Path string // SQLite database file; empty disables history
}

// ExtractConfig holds field-extraction configuration.
type ExtractConfig struct {
	RegistryPath string // optional JSON registry file; empty means built-in registry
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Tesseract:        getEnv("TESSERACT_BIN", "tesseract"),
			Pdftotext:        getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:         getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Language:         getEnv("OCR_LANG", "eng"),
			TessdataDir:      getEnv("TESSDATA_PREFIX", ""),
			HeicConverter:    getEnv("HEIC_CONVERTER", "magick"),
			DPI:              getEnvAsInt("OCR_DPI", 300),
			PSM:              getEnvAsInt("OCR_PSM", 0),
			OEM:              getEnvAsInt("OCR_OEM", 0),
			MaxPages:         getEnvAsInt("OCR_MAX_PAGES", 0),
			TSVConfidence:    getEnvAsBool("OCR_TSV_CONFIDENCE", false),
			ArtifactCacheDir: getEnv("ARTIFACT_CACHE_DIR", "./tmp"),
			Timeout:          getEnvAsDuration("OCR_TIMEOUT", 2*time.Minute),
		},
		Store: StoreConfig{
			Path: getEnv("SCAN_DB_PATH", ""),
		},
		Extract: ExtractConfig{
			RegistryPath: getEnv("FIELD_REGISTRY_PATH", ""),
		},
	}
}

// Helper functions for environment variable parsing.
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
