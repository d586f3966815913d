package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	AI     AIConfig
	Upload UploadConfig
	Auth   AuthConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type DBConfig struct {
	URL string
}

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
}

type AIConfig struct {
	CaptionURL    string
	CaptionToken  string
	OpenRouterKey string
	Model         string
}

type UploadConfig struct {
	MaxImages     int
	MaxWidth      int
	MaxBytes      int64
	SignedURLTTL  int64 // seconds
	ClassifyTimeo int64 // seconds, per external call
}

type AuthConfig struct {
	Secret string
}

func Load() (*Config, error) {
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("S3_BUCKET_NAME", "images")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("CAPTION_API_URL", "https://api-inference.huggingface.co/models/Salesforce/blip-image-captioning-large")
	viper.SetDefault("OPENROUTER_MODEL", "openai/gpt-4o-mini")
	viper.SetDefault("UPLOAD_MAX_IMAGES", 60)
	viper.SetDefault("UPLOAD_MAX_WIDTH", 1920)
	viper.SetDefault("UPLOAD_MAX_BYTES", 2*1024*1024)
	viper.SetDefault("SIGNED_URL_TTL", 3600)
	viper.SetDefault("CLASSIFY_TIMEOUT", 30)

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetString("SERVER_PORT"),
		},
		DB: DBConfig{
			URL: viper.GetString("DATABASE_URL"),
		},
		S3: S3Config{
			Endpoint:        viper.GetString("S3_ENDPOINT"),
			AccessKeyID:     viper.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("S3_SECRET_ACCESS_KEY"),
			BucketName:      viper.GetString("S3_BUCKET_NAME"),
			Region:          viper.GetString("S3_REGION"),
		},
		AI: AIConfig{
			CaptionURL:    viper.GetString("CAPTION_API_URL"),
			CaptionToken:  viper.GetString("CAPTION_API_TOKEN"),
			OpenRouterKey: viper.GetString("OPENROUTER_API_KEY"),
			Model:         viper.GetString("OPENROUTER_MODEL"),
		},
		Upload: UploadConfig{
			MaxImages:     viper.GetInt("UPLOAD_MAX_IMAGES"),
			MaxWidth:      viper.GetInt("UPLOAD_MAX_WIDTH"),
			MaxBytes:      viper.GetInt64("UPLOAD_MAX_BYTES"),
			SignedURLTTL:  viper.GetInt64("SIGNED_URL_TTL"),
			ClassifyTimeo: viper.GetInt64("CLASSIFY_TIMEOUT"),
		},
		Auth: AuthConfig{
			Secret: viper.GetString("AUTH_SECRET"),
		},
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is not set")
	}

	return cfg, nil
}
