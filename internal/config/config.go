package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret    string `yaml:"jwt_secret"`
		TokenTTLMins int    `yaml:"token_ttl_minutes"`
	} `yaml:"auth"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Mistral struct {
		APIKey     string `yaml:"api_key"`
		ChatModel  string `yaml:"chat_model"`
		EmbedModel string `yaml:"embed_model"`
	} `yaml:"mistral"`
	Pinecone struct {
		APIKey    string `yaml:"api_key"`
		IndexHost string `yaml:"index_host"`
	} `yaml:"pinecone"`
}

func LoadConfig() *Config {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	// secrets come from the environment when present
	overrideEnv(&cfg.Database.DSN, "DATABASE_URL")
	overrideEnv(&cfg.Auth.JWTSecret, "JWT_SECRET")
	overrideEnv(&cfg.Email.SMTPUser, "SMTP_USER")
	overrideEnv(&cfg.Email.SMTPPassword, "SMTP_PASS")
	overrideEnv(&cfg.Mistral.APIKey, "MISTRAL_API_KEY")
	overrideEnv(&cfg.Pinecone.APIKey, "PINECONE_API_KEY")

	if cfg.Mistral.ChatModel == "" {
		cfg.Mistral.ChatModel = "mistral-large-latest"
	}
	if cfg.Mistral.EmbedModel == "" {
		cfg.Mistral.EmbedModel = "mistral-embed"
	}
	if cfg.Auth.TokenTTLMins <= 0 {
		cfg.Auth.TokenTTLMins = 60 * 24
	}
	return &cfg
}

func overrideEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
