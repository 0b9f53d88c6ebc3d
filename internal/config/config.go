package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"GO_ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Redis backs the cross-instance event relay
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	EventRelayEnabled bool   `mapstructure:"EVENT_RELAY_ENABLED"`
	EventRelayChannel string `mapstructure:"EVENT_RELAY_CHANNEL"`
	EventBufferSize   int    `mapstructure:"EVENT_BUFFER_SIZE"`

	// Uploads: "local" writes to UploadDir, "r2" writes to the bucket below
	UploadDriver     string `mapstructure:"UPLOAD_DRIVER"`
	UploadDir        string `mapstructure:"UPLOAD_DIR"`
	UploadPublicPath string `mapstructure:"UPLOAD_PUBLIC_PATH"`
	UploadMaxBytes   int64  `mapstructure:"UPLOAD_MAX_BYTES"`

	// R2 / S3
	R2AccountID       string `mapstructure:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `mapstructure:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `mapstructure:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `mapstructure:"R2_BUCKET_NAME"`
	R2PublicURL       string `mapstructure:"R2_PUBLIC_URL"` // Custom domain
}

var AppConfig *Config

// keys lists every setting so AutomaticEnv can populate Unmarshal without a .env file.
var keys = []string{
	"PORT", "GO_ENV", "DATABASE_URL", "JWT_SECRET", "FRONTEND_URL",
	"REDIS_ADDR", "REDIS_PASSWORD", "EVENT_RELAY_ENABLED", "EVENT_RELAY_CHANNEL", "EVENT_BUFFER_SIZE",
	"UPLOAD_DRIVER", "UPLOAD_DIR", "UPLOAD_PUBLIC_PATH", "UPLOAD_MAX_BYTES",
	"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_URL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GO_ENV", "development")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("EVENT_RELAY_CHANNEL", "chat:events")
	v.SetDefault("EVENT_BUFFER_SIZE", 64)
	v.SetDefault("UPLOAD_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "public/uploads")
	v.SetDefault("UPLOAD_PUBLIC_PATH", "/uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 10*1024*1024)
}

// Load reads configuration from the given env file (if present) and the environment.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.Println("No .env file found, relying on environment variables")
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadConfig() {
	cfg, err := Load(".env")
	if err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
	AppConfig = cfg
}
