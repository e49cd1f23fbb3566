package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Telegram struct {
	APIToken         string `yaml:"api_token" env:"TELEGRAM_APITOKEN" env-required:"true"`
	PersonaPickerURL string `yaml:"persona_picker_url" env:"PERSONA_PICKER_URL" env-default:"https://codepen.io/okadapy/full/QWYaGgG/full/"`
	UpdateTimeout    int    `yaml:"update_timeout_seconds" env:"TELEGRAM_UPDATE_TIMEOUT" env-default:"60"`
}

type OpenAI struct {
	APIKey           string        `env:"OPENAI_API_KEY" env-required:"true"`
	Model            string        `yaml:"openai_model" env:"OPENAI_MODEL" env-default:"gpt-3.5-turbo"`
	BaseURL          string        `yaml:"open_ai_base_url" env:"OPENAI_BASE_URL"`
	ModelTemperature float32       `yaml:"model_temperature" env:"MODEL_TEMPERATURE"`
	RequestTimeout   time.Duration `yaml:"request_timeout" env:"OPENAI_REQUEST_TIMEOUT" env-default:"60s"`
	MaxPromptTokens  int           `yaml:"max_prompt_tokens" env:"MAX_PROMPT_TOKENS" env-default:"3500"`
}

type Amplitude struct {
	APIKey      string        `env:"AMPLITUDE_API_KEY"`
	Endpoint    string        `yaml:"amplitude_endpoint" env:"AMPLITUDE_ENDPOINT" env-default:"https://api2.amplitude.com/2/httpapi"`
	EmitTimeout time.Duration `yaml:"emit_timeout" env:"AMPLITUDE_EMIT_TIMEOUT" env-default:"5s"`
}

type Storage struct {
	SQLitePath    string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"persona-bot.db"`
	UserDriver    string `yaml:"user_driver" env:"USER_STORAGE_DRIVER" env-default:"sqlite"`
	RedisEndpoint string `yaml:"redis_endpoint" env:"REDIS_ENDPOINT" env-default:"localhost:6379"`
}

type Relay struct {
	DefaultPersona string `yaml:"default_persona" env:"DEFAULT_PERSONA" env-default:"Mario"`
}

type Config struct {
	Telegram  Telegram  `yaml:"telegram"`
	OpenAI    OpenAI    `yaml:"openai"`
	Amplitude Amplitude `yaml:"amplitude"`
	Storage   Storage   `yaml:"storage"`
	Relay     Relay     `yaml:"relay"`
}

// LoadConfig reads the optional yaml file first, then lets the
// environment override it.
func LoadConfig(cfgPath string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(cfgPath); err == nil {
		if err := cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
			return nil, err
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
