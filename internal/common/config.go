package common

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	OCR     OCRConfig
	LLM     LLMConfig
	Process ProcessConfig
	Review  ReviewConfig
}

// ServerConfig holds transport-related configuration
type ServerConfig struct {
	HTTPAddr       string
	GRPCAddr       string // health only; empty disables it
	FrontendURL    string
	AllowedOrigins []string
	MaxUploadBytes int64
}

// OCRConfig holds text extraction and OCR configuration
type OCRConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	DPI           int
	PSM           int
	MaxPages      int
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Model             string
	APIKey            string
	BaseURL           string
	Temperature       float32
	Timeout           time.Duration
	RequestsPerMinute int
}

// ProcessConfig bounds document processing.
type ProcessConfig struct {
	Concurrency     int
	DocumentTimeout time.Duration
}

// ReviewConfig holds review-session settings.
type ReviewConfig struct {
	NotificationTTL time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8000")
	v.SetDefault("grpc_addr", ":8081")
	v.SetDefault("frontend_url", "")
	v.SetDefault("allowed_origins", "")
	v.SetDefault("max_upload_mb", 50)

	v.SetDefault("ocr_pdftotext", "pdftotext")
	v.SetDefault("ocr_pdftoppm", "pdftoppm")
	v.SetDefault("ocr_tesseract", "tesseract")
	v.SetDefault("ocr_lang", "eng")
	v.SetDefault("tessdata_prefix", "")
	v.SetDefault("ocr_dpi", 300)
	v.SetDefault("ocr_psm", 6)
	v.SetDefault("ocr_max_pages", 0)

	v.SetDefault("openai_model", "gpt-4o")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("openai_temperature", 0.0)
	v.SetDefault("openai_timeout", 60*time.Second)
	v.SetDefault("openai_rpm", 60)

	v.SetDefault("process_concurrency", 4)
	v.SetDefault("process_document_timeout", 3*time.Minute)

	v.SetDefault("notification_ttl", 4*time.Second)
}

// LoadConfig reads environment variables, layered over an optional
// bidbook.yaml in the working directory (or the file named by BIDBOOK_CONFIG).
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := os.Getenv("BIDBOOK_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bidbook")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, NewAppError("CONFIG_ERROR", "read config file", err)
		}
	}

	return &Config{
		Server: ServerConfig{
			HTTPAddr:       v.GetString("http_addr"),
			GRPCAddr:       v.GetString("grpc_addr"),
			FrontendURL:    v.GetString("frontend_url"),
			AllowedOrigins: splitList(v.GetString("allowed_origins")),
			MaxUploadBytes: v.GetInt64("max_upload_mb") << 20,
		},
		OCR: OCRConfig{
			Pdftotext:     v.GetString("ocr_pdftotext"),
			Pdftoppm:      v.GetString("ocr_pdftoppm"),
			Tesseract:     v.GetString("ocr_tesseract"),
			TesseractLang: v.GetString("ocr_lang"),
			TessdataDir:   v.GetString("tessdata_prefix"),
			DPI:           v.GetInt("ocr_dpi"),
			PSM:           v.GetInt("ocr_psm"),
			MaxPages:      v.GetInt("ocr_max_pages"),
		},
		LLM: LLMConfig{
			Model:             v.GetString("openai_model"),
			APIKey:            v.GetString("openai_api_key"),
			BaseURL:           v.GetString("openai_base_url"),
			Temperature:       float32(v.GetFloat64("openai_temperature")),
			Timeout:           v.GetDuration("openai_timeout"),
			RequestsPerMinute: v.GetInt("openai_rpm"),
		},
		Process: ProcessConfig{
			Concurrency:     v.GetInt("process_concurrency"),
			DocumentTimeout: v.GetDuration("process_document_timeout"),
		},
		Review: ReviewConfig{
			NotificationTTL: v.GetDuration("notification_ttl"),
		},
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Process.Concurrency <= 0 {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("PROCESS_CONCURRENCY must be positive, got %d", c.Process.Concurrency), ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return NewAppError("CONFIG_ERROR", "OPENAI_TEMPERATURE must be within 0..2", ErrInvalidInput)
	}
	return nil
}
