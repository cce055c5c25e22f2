package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session duration policies for the in-progress timer.
const (
	SessionPolicyFixed   = "fixed"
	SessionPolicyService = "service"
)

type Config struct {
	ServerPort  string
	CORSOrigins []string

	DBDriver string
	DBUrl    string

	Timezone string

	SessionPolicy       string
	SessionFixedMinutes int
	AutoRecordRevenue   bool

	BusinessName         string
	DefaultPaymentMethod string

	QuestionnaireSecret  string
	QuestionnaireBaseURL string
	QuestionnaireTTL     time.Duration
	ValidateEmailDomain  bool

	WhatsAppAPIURL        string
	WhatsAppPhoneNumberID string
	WhatsAppToken         string

	RedisURL string

	BackupEnabled  bool
	BackupInterval time.Duration
	BackupDriver   string
	BackupDir      string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PathStyle bool

	LogLevel  string
	LogFormat string
}

// Load reads the environment, after merging a .env file when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		CORSOrigins: getEnvList("CORS_ORIGINS"),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBUrl:    getEnv("DATABASE_URL", "studio.db"),

		Timezone: getEnv("TIMEZONE", "America/Sao_Paulo"),

		SessionPolicy:       strings.ToLower(getEnv("SESSION_DURATION_POLICY", SessionPolicyFixed)),
		SessionFixedMinutes: getEnvInt("SESSION_FIXED_MINUTES", 60),
		AutoRecordRevenue:   getEnvBool("AUTO_RECORD_REVENUE", true),

		BusinessName:         getEnv("BUSINESS_NAME", "Total Bronze"),
		DefaultPaymentMethod: getEnv("DEFAULT_PAYMENT_METHOD", "Dinheiro"),

		QuestionnaireSecret:  getEnv("QUESTIONNAIRE_SECRET", "changeme"),
		QuestionnaireBaseURL: getEnv("QUESTIONNAIRE_BASE_URL", "http://localhost:8080/anamnese"),
		QuestionnaireTTL:     getEnvDuration("QUESTIONNAIRE_TTL", 7*24*time.Hour),
		ValidateEmailDomain:  getEnvBool("VALIDATE_EMAIL_DOMAIN", false),

		WhatsAppAPIURL:        getEnv("WHATSAPP_API_URL", ""),
		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppToken:         getEnv("WHATSAPP_TOKEN", ""),

		RedisURL: getEnv("REDIS_URL", ""),

		BackupEnabled:  getEnvBool("BACKUP_ENABLED", false),
		BackupInterval: getEnvDuration("BACKUP_INTERVAL", 5*time.Minute),
		BackupDriver:   strings.ToLower(getEnv("BACKUP_DRIVER", "file")),
		BackupDir:      getEnv("BACKUP_DIR", "backups"),

		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3PathStyle: getEnvBool("S3_PATH_STYLE", false),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Validate rejects combinations the application cannot run with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: must be sqlite or postgres", c.DBDriver)
	}
	switch c.SessionPolicy {
	case SessionPolicyFixed, SessionPolicyService:
	default:
		return fmt.Errorf("invalid SESSION_DURATION_POLICY %q: must be fixed or service", c.SessionPolicy)
	}
	if c.SessionFixedMinutes <= 0 {
		return fmt.Errorf("SESSION_FIXED_MINUTES must be positive")
	}
	if (c.WhatsAppPhoneNumberID == "") != (c.WhatsAppToken == "") {
		return fmt.Errorf("WHATSAPP_PHONE_NUMBER_ID and WHATSAPP_TOKEN must be set together")
	}
	if c.BackupEnabled && c.BackupDriver == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET required for s3 backup driver")
	}
	return nil
}

// WhatsAppEnabled reports whether questionnaire links go out through the
// WhatsApp Cloud API instead of the log.
func (c *Config) WhatsAppEnabled() bool {
	return c.WhatsAppPhoneNumberID != "" && c.WhatsAppToken != ""
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func (c *Config) SessionFixedDuration() time.Duration {
	return time.Duration(c.SessionFixedMinutes) * time.Minute
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
