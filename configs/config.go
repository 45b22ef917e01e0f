package configs

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config agrupa toda a configuração da aplicação carregada do ambiente.
type Config struct {
	AppPort string
	AppEnv  string
	// APIAuth liga o HTTP Basic nas rotas /api (validado contra a tabela users).
	APIAuth bool

	OpenAI   OpenAIConfig
	Calendar CalendarConfig
	WhatsApp WhatsAppConfig
	Booking  BookingConfig
}

// OpenAIConfig credenciais do colaborador de texto generativo.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // opcional, para provedores compatíveis com a API da OpenAI
	Model   string
}

// CalendarConfig credenciais da conta de serviço do Google Calendar.
// Quando vazias, o gateway opera em modo "não configurado".
type CalendarConfig struct {
	CredentialsFile string
	CalendarID      string
}

// WhatsAppConfig gateway HTTP de envio de mensagens (estilo Evolution API).
type WhatsAppConfig struct {
	APIURL   string
	Instance string
	APIKey   string
}

// BookingConfig política de agendamento e janelas de funcionamento.
type BookingConfig struct {
	// RequireCalendar: sem escrita no calendário não há agendamento (caminho
	// de criação aborta). Desligue para permitir agendamento somente no banco.
	RequireCalendar bool
	// StrictAvailability também consulta o calendário externo na checagem de
	// disponibilidade. O banco continua sendo a fonte canônica.
	StrictAvailability bool

	TimezoneOffsetHours    int // fuso civil fixo do negócio (padrão -3, sem horário de verão)
	WorkStartHour          int // abertura, inclusive
	WorkEndHour            int // fechamento, exclusivo
	SlotStepMinutes        int
	SearchHorizonDays      int
	DefaultDurationMinutes int
	MaxSuggestions         int
}

// Load lê o .env (se existir) e monta a configuração.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),
		APIAuth: getEnvBool("API_AUTH_ENABLED", false),
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Calendar: CalendarConfig{
			CredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
			CalendarID:      os.Getenv("GOOGLE_CALENDAR_ID"),
		},
		WhatsApp: WhatsAppConfig{
			APIURL:   os.Getenv("WHATSAPP_API_URL"),
			Instance: os.Getenv("WHATSAPP_INSTANCE"),
			APIKey:   os.Getenv("WHATSAPP_API_KEY"),
		},
		Booking: BookingConfig{
			RequireCalendar:        getEnvBool("REQUIRE_CALENDAR_FOR_BOOKING", true),
			StrictAvailability:     getEnvBool("CALENDAR_STRICT_AVAILABILITY", false),
			TimezoneOffsetHours:    getEnvInt("BUSINESS_TZ_OFFSET_HOURS", -3),
			WorkStartHour:          getEnvInt("WORK_START_HOUR", 8),
			WorkEndHour:            getEnvInt("WORK_END_HOUR", 18),
			SlotStepMinutes:        getEnvInt("SLOT_STEP_MINUTES", 30),
			SearchHorizonDays:      getEnvInt("SEARCH_HORIZON_DAYS", 14),
			DefaultDurationMinutes: getEnvInt("DEFAULT_DURATION_MINUTES", 60),
			MaxSuggestions:         getEnvInt("MAX_SUGGESTIONS", 3),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
