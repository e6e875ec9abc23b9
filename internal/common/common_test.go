package common

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BIDBOOK_CONFIG", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.HTTPAddr)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, 6, cfg.OCR.PSM)
	assert.Equal(t, int64(50<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 4*time.Second, cfg.Review.NotificationTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("BIDBOOK_CONFIG", "")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("PROCESS_CONCURRENCY", "2")
	t.Setenv("OPENAI_TIMEOUT", "5s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 2, cfg.Process.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bidbook.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: \":9000\"\nocr_dpi: 200\n"), 0o600))
	t.Setenv("BIDBOOK_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.HTTPAddr)
	assert.Equal(t, 200, cfg.OCR.DPI)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{Server: ServerConfig{HTTPAddr: ":8000"}, OCR: OCRConfig{DPI: 300}}
	err := cfg.Validate()
	require.Error(t, err)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEmailRule(t *testing.T) {
	assert.Nil(t, Email("email", ""))
	assert.Nil(t, Email("email", "ops@acme.com"))
	assert.NotNil(t, Email("email", "ops.acme.com"))
}

func TestUSPhoneRule(t *testing.T) {
	assert.Nil(t, USPhone("phone", ""))
	assert.Nil(t, USPhone("phone", "(301) 236-0429"))
	assert.Nil(t, USPhone("phone", "301.236.0429"))
	assert.NotNil(t, USPhone("phone", "236-0429"))
	assert.NotNil(t, USPhone("phone", "+1 301 236 0429"))
}

func TestValidatorCollects(t *testing.T) {
	v := NewValidator().
		Field("email", "nope", Email).
		Field("company_name", "", Required).
		Field("website", "www.acme.com", MaxLength(5))
	require.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 3)

	err := ValidateAndReturnError(v)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&InvalidFieldError{Field: "fax"}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(fmt.Errorf("wrap: %w", ErrValidation)))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(ErrValidationRejected))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
}
