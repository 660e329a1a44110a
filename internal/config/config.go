package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr         string
	DataPath           string
	DatabaseURL        string
	MaxUploadSizeBytes int64
	ExportQuality      float64
	PreviewFrameMS     int
	PreviewWidth       int
	ComplianceDelayMS  int
	FontBoldPath       string
	FontRegularPath    string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:         getEnv("LISTEN_ADDR", ":8080"),
		DataPath:           strings.TrimSpace(os.Getenv("DATA_PATH")),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		MaxUploadSizeBytes: getEnvInt64("MAX_UPLOAD_SIZE_BYTES", 16*1024*1024),
		ExportQuality:      getEnvFloat("EXPORT_QUALITY", 0.85),
		PreviewFrameMS:     getEnvInt("PREVIEW_FRAME_MS", 16),
		PreviewWidth:       getEnvInt("PREVIEW_WIDTH", 360),
		ComplianceDelayMS:  getEnvInt("COMPLIANCE_DELAY_MS", 0),
		FontBoldPath:       getEnv("FONT_BOLD_PATH", ""),
		FontRegularPath:    getEnv("FONT_REGULAR_PATH", ""),
	}
	if _, set := os.LookupEnv("DATA_PATH"); !set {
		cfg.DataPath = "./data/styles.json"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxUploadSizeBytes <= 0 {
		return errors.New("max upload size bytes must be > 0")
	}
	if c.ExportQuality <= 0 || c.ExportQuality > 1 {
		return errors.New("export quality must be in (0,1]")
	}
	if c.PreviewFrameMS < 0 {
		return errors.New("preview frame ms must be >= 0")
	}
	if c.PreviewWidth <= 0 {
		return errors.New("preview width must be > 0")
	}
	if c.ComplianceDelayMS < 0 {
		return errors.New("compliance delay ms must be >= 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
