package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
// Credentials are deliberately absent: they are read per call through the
// key sources below.
type Config struct {
	// Server Configuration
	ServerAddress string `mapstructure:"SERVER_ADDRESS"` // e.g., ":8080"
	AppEnv        string `mapstructure:"APP_ENV"`        // "production" switches gin to release mode

	// Origins allowed to call the JSON API from a browser, comma separated.
	// Empty disables CORS headers.
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// AI Configuration
	AIProvider      string `mapstructure:"AI_PROVIDER"`      // "gemini" or "openai"
	GenerationModel string `mapstructure:"GENERATION_MODEL"` // empty picks the provider default
	SpeechModel     string `mapstructure:"SPEECH_MODEL"`     // empty picks the provider default
	OpenAIBaseURL   string `mapstructure:"OPENAI_BASE_URL"`  // empty means api.openai.com

	// Presentation limits
	SpeechTextLimit  int `mapstructure:"SPEECH_TEXT_LIMIT"`  // characters of documentation read aloud
	ContentLineLimit int `mapstructure:"CONTENT_LINE_LIMIT"` // lines shown per generated file

	// Visitor sessions
	SessionCapacity int           `mapstructure:"SESSION_CAPACITY"`
	SessionTTL      time.Duration `mapstructure:"SESSION_TTL"`
}

const (
	keyAPI    = "API_KEY"
	keyGemini = "GEMINI_API_KEY"
	keyOpenAI = "OPENAI_API_KEY"
)

func setDefaults() {
	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{})
	viper.SetDefault("AI_PROVIDER", "gemini")
	viper.SetDefault("GENERATION_MODEL", "")
	viper.SetDefault("SPEECH_MODEL", "")
	viper.SetDefault("OPENAI_BASE_URL", "")
	viper.SetDefault("SPEECH_TEXT_LIMIT", 500)
	viper.SetDefault("CONTENT_LINE_LIMIT", 10)
	viper.SetDefault("SESSION_CAPACITY", 1000)
	viper.SetDefault("SESSION_TTL", time.Hour)

	// Known to viper so AutomaticEnv and config files both resolve them.
	viper.SetDefault(keyAPI, "")
	viper.SetDefault(keyGemini, "")
	viper.SetDefault(keyOpenAI, "")
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	setDefaults()
	viper.AddConfigPath(path)     // Path to look for the config file in
	viper.SetConfigName("config") // Name of config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.AutomaticEnv() // Read environment variables that match keys

	// Attempt to read the config file
	err = viper.ReadInConfig()
	if err != nil {
		// If config file not found, log it but continue if env vars might be set
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file ('config.yaml') not found in specified path, relying solely on environment variables.")
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Printf("Using configuration file: %s", viper.ConfigFileUsed())
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.AIProvider = strings.ToLower(strings.TrimSpace(config.AIProvider))
	if config.AIProvider != "gemini" && config.AIProvider != "openai" {
		return Config{}, fmt.Errorf("AI_PROVIDER must be gemini or openai, got %q", config.AIProvider)
	}
	if config.SpeechTextLimit <= 0 {
		return Config{}, fmt.Errorf("SPEECH_TEXT_LIMIT must be positive, got %d", config.SpeechTextLimit)
	}
	if config.SessionCapacity <= 0 || config.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_CAPACITY and SESSION_TTL must be positive")
	}

	// Missing credentials are not fatal: each request reports them instead.
	if APIKey(config.AIProvider)() == "" {
		log.Printf("WARN: no API key for provider %s is set. Generation and voice requests will fail until one is provided.", config.AIProvider)
	}

	return
}

// APIKey returns a resolver for the credential of provider. Generation and
// speech both go to provider, so one key serves both calls. It is evaluated
// on every call so a key exported after startup is honoured.
func APIKey(provider string) func() string {
	specific := keyGemini
	if provider == "openai" {
		specific = keyOpenAI
	}
	return func() string { return firstKey(keyAPI, specific) }
}

func firstKey(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(viper.GetString(name)); v != "" {
			return v
		}
	}
	return ""
}
