package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config: tüm ayarlar env'den. godotenv main'de yüklenir, burada sadece
// okuma + validasyon var.
type Config struct {
	Addr  string `validate:"required"`
	DBDSN string

	// SecretKeyBase64: 32 base64 karakteri = 24 byte 3DES anahtarı.
	SecretKeyBase64 string `validate:"required,base64,len=32"`
	MerchantCode    string `validate:"required,numeric"`
	Terminal        string `validate:"required,numeric"`
	GatewayURL      string `validate:"required,url"`

	MaxAmountCents int64 `validate:"required,gt=0"`

	// AllowInsecureCallbackURLs: sadece dev. Prod'da http callback kabul edilmez.
	AllowInsecureCallbackURLs bool
}

func Load() (Config, error) {
	cfg := Config{
		Addr:                      getenv("HTTP_ADDR", ":8080"),
		DBDSN:                     os.Getenv("DB_DSN"),
		SecretKeyBase64:           os.Getenv("REDSYS_SECRET_KEY"),
		MerchantCode:              os.Getenv("REDSYS_MERCHANT_CODE"),
		Terminal:                  getenv("REDSYS_TERMINAL", "1"),
		GatewayURL:                getenv("REDSYS_GATEWAY_URL", "https://sis-t.redsys.es:25443/sis/realizarPago"),
		MaxAmountCents:            getenvInt64("PAYMENTS_MAX_AMOUNT_CENTS", 500_000),
		AllowInsecureCallbackURLs: os.Getenv("ALLOW_INSECURE_CALLBACK_URLS") == "true",
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
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
