package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はサーバーとクライアントの設定
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Timeouts TimeoutConfig
	Planner  PlannerConfig
	Storage  StorageConfig
}

// ServerConfig はAPIサーバーの設定
type ServerConfig struct {
	Port             string
	GinMode          string
	CORSAllowOrigins []string
}

// AIConfig は生成AIプロバイダーの設定
type AIConfig struct {
	Provider      string // "gemini" | "openai"
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	RateLimit     time.Duration // 呼び出し間隔の下限
}

// TimeoutConfig はサーバー側のAI呼び出しの制限時間
type TimeoutConfig struct {
	PlanTrip   time.Duration
	TripIdeas  time.Duration
	TripUpdate time.Duration
}

// PlannerConfig はターミナルクライアントの設定
type PlannerConfig struct {
	APIURL        string
	SearchTimeout time.Duration
	ClientID      string
	AlertSchedule string
}

// StorageConfig は最近の検索・購読の保存先
type StorageConfig struct {
	Driver                string // memory | sqlite | redis | postgres | supabase | firestore
	SQLitePath            string
	RedisAddr             string
	RedisPassword         string
	SupabaseURL           string
	SupabaseAnonKey       string
	SupabaseDBPassword    string
	FirestoreProjectID    string
	GoogleCredentialsFile string
}

// Load は環境変数（.envがあれば読み込む）から設定を作成する
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:             getEnv("SERVER_PORT", "8080"),
			GinMode:          os.Getenv("GIN_MODE"),
			CORSAllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
		},
		AI: AIConfig{
			Provider:      strings.ToLower(getEnv("AI_PROVIDER", "gemini")),
			GeminiAPIKey:  getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
			GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
			OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			RateLimit:     time.Duration(getEnvInt("AI_RATE_LIMIT_MS", 750)) * time.Millisecond,
		},
		Timeouts: TimeoutConfig{
			PlanTrip:   time.Duration(getEnvInt("PLAN_TRIP_TIMEOUT_SEC", 25)) * time.Second,
			TripIdeas:  time.Duration(getEnvInt("TRIP_IDEAS_TIMEOUT_SEC", 9)) * time.Second,
			TripUpdate: time.Duration(getEnvInt("TRIP_UPDATE_TIMEOUT_SEC", 20)) * time.Second,
		},
		Planner: PlannerConfig{
			APIURL:        strings.TrimSuffix(getEnv("PLANNER_API_URL", "http://localhost:8080"), "/"),
			SearchTimeout: time.Duration(getEnvInt("PLANNER_SEARCH_TIMEOUT_SEC", 45)) * time.Second,
			ClientID:      os.Getenv("PLANNER_CLIENT_ID"),
			AlertSchedule: getEnv("ALERT_SCHEDULE", "@every 15m"),
		},
		Storage: StorageConfig{
			Driver:                strings.ToLower(getEnv("STORAGE_DRIVER", "memory")),
			SQLitePath:            getEnv("SQLITE_PATH", "planner.db"),
			RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword:         os.Getenv("REDIS_PASSWORD"),
			SupabaseURL:           os.Getenv("SUPABASE_URL"),
			SupabaseAnonKey:       os.Getenv("SUPABASE_ANON_KEY"),
			SupabaseDBPassword:    os.Getenv("SUPABASE_DB_PASSWORD"),
			FirestoreProjectID:    os.Getenv("FIRESTORE_PROJECT_ID"),
			GoogleCredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		},
	}

	switch cfg.AI.Provider {
	case "gemini":
		if cfg.AI.GeminiAPIKey == "" {
			log.Printf("⚠️ GEMINI_API_KEY not set")
		}
	case "openai":
		if cfg.AI.OpenAIAPIKey == "" {
			log.Printf("⚠️ OPENAI_API_KEY not set")
		}
	default:
		log.Printf("⚠️ Unknown AI_PROVIDER: %s (using gemini as fallback)", cfg.AI.Provider)
		cfg.AI.Provider = "gemini"
	}

	return cfg
}

// getEnv は環境変数を取得し、未設定の場合はデフォルト値を返す
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		log.Printf("⚠️ %s の値が不正です: %q (デフォルト値 %d を使用)", key, value, defaultValue)
		return defaultValue
	}
	return n
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
