package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the NewsGenius service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Auth      AuthConfig      `mapstructure:"auth"`
	NewsAPI   NewsAPIConfig   `mapstructure:"newsapi"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Listen   string `mapstructure:"listen"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// AuthConfig contains the credential pair and session settings.
// Password is the plaintext pair from the original app; PasswordBcrypt,
// when set, takes precedence and switches the verifier to bcrypt.
type AuthConfig struct {
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	PasswordBcrypt string        `mapstructure:"password_bcrypt"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
}

func (a AuthConfig) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return fmt.Errorf("auth.username required")
	}
	if a.Password == "" && a.PasswordBcrypt == "" {
		return fmt.Errorf("auth.password or auth.password_bcrypt required")
	}
	if strings.TrimSpace(a.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret required")
	}
	return nil
}

// NewsAPIConfig contains NewsAPI settings for topic search and the live feed
type NewsAPIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Endpoint    string        `mapstructure:"endpoint"`
	Language    string        `mapstructure:"language"`
	MaxArticles int           `mapstructure:"max_articles"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ProvidersConfig contains LLM provider configurations
type ProvidersConfig struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig contains the Gemini completion settings. An empty APIKey
// disables the summarize feature instead of failing startup.
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Endpoint    string        `mapstructure:"endpoint"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// SpeechConfig groups the recognition and synthesis collaborators
type SpeechConfig struct {
	Recognition RecognitionConfig `mapstructure:"recognition"`
	TTS         TTSConfig         `mapstructure:"tts"`
}

// RecognitionConfig contains the speech-to-text service settings
type RecognitionConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// TTSConfig contains the text-to-speech service settings
type TTSConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Language string        `mapstructure:"language"`
	Slow     bool          `mapstructure:"slow"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// FeedConfig controls the live feed panel source
type FeedConfig struct {
	Source string            `mapstructure:"source"` // newsapi or rss
	Limit  int               `mapstructure:"limit"`
	RSS    map[string]string `mapstructure:"rss"` // category -> feed URL
}

func (f FeedConfig) Validate() error {
	switch f.Source {
	case "", "newsapi":
		return nil
	case "rss":
		if len(f.RSS) == 0 {
			return fmt.Errorf("feed.rss must map categories to feed URLs when feed.source is rss")
		}
		return nil
	default:
		return fmt.Errorf("feed.source must be newsapi or rss")
	}
}

// ArtifactsConfig contains the working directory for audio/PDF artifacts
type ArtifactsConfig struct {
	Dir string `mapstructure:"dir"`
}

// StorageConfig contains session storage settings
type StorageConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings. An empty host selects the
// in-memory session store.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return nil
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required when host is set")
	}
	return nil
}

// LoadConfig loads config from file
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("general.listen", ":8501")
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("auth.username", "admin")
	viper.SetDefault("auth.password", "1234")
	viper.SetDefault("auth.session_ttl", 24*time.Hour)
	viper.SetDefault("newsapi.endpoint", "https://newsapi.org/v2/everything")
	viper.SetDefault("newsapi.language", "en")
	viper.SetDefault("newsapi.max_articles", 3)
	viper.SetDefault("newsapi.timeout", 30*time.Second)
	viper.SetDefault("providers.gemini.model", "gemini-1.5-flash-latest")
	viper.SetDefault("providers.gemini.endpoint", "https://generativelanguage.googleapis.com")
	viper.SetDefault("providers.gemini.temperature", 0.2)
	viper.SetDefault("providers.gemini.max_tokens", 1024)
	viper.SetDefault("providers.gemini.timeout", 60*time.Second)
	viper.SetDefault("speech.recognition.language", "en-US")
	viper.SetDefault("speech.recognition.timeout", 30*time.Second)
	viper.SetDefault("speech.tts.language", "en")
	viper.SetDefault("speech.tts.timeout", 30*time.Second)
	viper.SetDefault("feed.source", "newsapi")
	viper.SetDefault("feed.limit", 5)
	viper.SetDefault("artifacts.dir", "artifacts")

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("NEWSGENIUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if err := config.Auth.Validate(); err != nil {
		panic(err)
	}
	if err := config.Feed.Validate(); err != nil {
		panic(err)
	}
	if err := config.Storage.Redis.Validate(); err != nil {
		panic(err)
	}
	return &config
}
