package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	HTTPPort    string
	RabbitMQURL string
	LogLevel    string

	AllowedOrigins    []string
	TrustProxyHeaders bool

	PlacesAPIKey   string
	PlacesBaseURL  string
	PlacesLanguage string

	WhatsAppURL      string
	WhatsAppKey      string
	WhatsAppInstance string

	KommoToken    string
	KommoBaseURL  string
	KommoStatusID int

	MailHost    string
	MailPort    int
	MailUser    string
	MailPass    string
	MailFrom    string
	ReportEmail string

	Timezone          *time.Location
	DailyCap          int
	Pacing            time.Duration
	MinYield          int
	MaxPages          int
	PageDelay         time.Duration
	FailureDelay      time.Duration
	HTTPClientTimeout time.Duration

	// Warnings lista valores inválidos que caíram no padrão.
	Warnings []string
}

func LoadConfig() (*Config, error) {
	// .env é opcional; em produção as variáveis vêm do ambiente
	_ = godotenv.Load()

	c := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),

		PlacesAPIKey:   os.Getenv("PLACES_API_KEY"),
		PlacesBaseURL:  os.Getenv("PLACES_BASE_URL"),
		PlacesLanguage: getEnv("PLACES_LANGUAGE", "pt-BR"),

		WhatsAppURL:      os.Getenv("WHATSAPP_API_URL"),
		WhatsAppKey:      os.Getenv("WHATSAPP_API_KEY"),
		WhatsAppInstance: os.Getenv("WHATSAPP_INSTANCE"),

		KommoToken:   os.Getenv("KOMMO_API_TOKEN"),
		KommoBaseURL: os.Getenv("KOMMO_BASE_URL"),

		MailHost:    os.Getenv("MAIL_HOST"),
		MailUser:    os.Getenv("MAIL_USER"),
		MailPass:    os.Getenv("MAIL_PASS"),
		MailFrom:    os.Getenv("MAIL_FROM"),
		ReportEmail: os.Getenv("REPORT_EMAIL"),
	}

	c.TrustProxyHeaders = c.boolEnv("TRUST_PROXY_HEADERS", false)
	c.KommoStatusID = c.intEnv("KOMMO_STATUS_ID", 0)
	c.MailPort = c.intEnv("MAIL_PORT", 587)
	c.DailyCap = c.intEnv("PROSPECTING_DAILY_CAP", 40)
	c.MinYield = c.intEnv("PROSPECTING_MIN_YIELD", 20)
	c.MaxPages = c.intEnv("PROSPECTING_MAX_PAGES", 3)
	c.Pacing = c.durationEnv("PROSPECTING_PACING", 15*time.Minute)
	c.PageDelay = c.durationEnv("PROSPECTING_PAGE_DELAY", 2*time.Second)
	c.FailureDelay = c.durationEnv("PROSPECTING_FAILURE_DELAY", time.Second)
	c.HTTPClientTimeout = c.durationEnv("HTTP_CLIENT_TIMEOUT", 30*time.Second)

	tz := getEnv("PROSPECTING_TIMEZONE", "America/Sao_Paulo")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("PROSPECTING_TIMEZONE inválido (%s): %w", tz, err)
	}
	c.Timezone = loc

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL é obrigatório")
	}
	return c, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (c *Config) intEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.Warnings = append(c.Warnings, fmt.Sprintf("%s=%q inválido, usando %d", key, raw, fallback))
		return fallback
	}
	return n
}

func (c *Config) boolEnv(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		c.Warnings = append(c.Warnings, fmt.Sprintf("%s=%q inválido, usando %t", key, raw, fallback))
		return fallback
	}
	return b
}

func (c *Config) durationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		c.Warnings = append(c.Warnings, fmt.Sprintf("%s=%q inválido, usando %s", key, raw, fallback))
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
