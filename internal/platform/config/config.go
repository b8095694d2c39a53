package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	MongoURI     string
	MongoDBName  string
	Port         string
	IsProduction bool
	JWTIssuer    string
	// Access token config
	AccessTokenSecret         string
	AccessTokenExpiryDuration time.Duration
	// Refresh token config
	RefreshTokenSecret         string
	RefreshTokenExpiryDuration time.Duration

	// Remote media host (avatar/cover image uploads)
	MediaUploadURL string `mapstructure:"MEDIA_UPLOAD_URL"`
	// Local scratch directory for multipart uploads before they are pushed
	// to the media host.
	TempUploadDir string `mapstructure:"TEMP_UPLOAD_DIR"`

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB_NAME", "vidverse")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_ISSUER", "vidverse-backend")
	viper.SetDefault("ACCESS_TOKEN_SECRET", "insecure-access-secret-change-me")
	viper.SetDefault("ACCESS_TOKEN_EXPIRY_DURATION", "15m")
	viper.SetDefault("REFRESH_TOKEN_SECRET", "insecure-refresh-secret-change-me")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "240h")
	viper.SetDefault("MEDIA_UPLOAD_URL", "")
	viper.SetDefault("TEMP_UPLOAD_DIR", "./public/temp")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.MongoURI = viper.GetString("MONGO_URI")
	cfg.MongoDBName = viper.GetString("MONGO_DB_NAME")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.AccessTokenSecret = viper.GetString("ACCESS_TOKEN_SECRET")
	if cfg.AccessTokenSecret == "insecure-access-secret-change-me" {
		log.Println("Warning: ACCESS_TOKEN_SECRET not set. Using default insecure key. THIS IS NOT FOR PRODUCTION.")
	}

	accessExpiryStr := viper.GetString("ACCESS_TOKEN_EXPIRY_DURATION")
	accessExpiry, err := time.ParseDuration(accessExpiryStr)
	if err != nil {
		accessExpiry = 15 * time.Minute
		log.Printf("Warning: Invalid value for ACCESS_TOKEN_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", accessExpiryStr, accessExpiry)
	}
	cfg.AccessTokenExpiryDuration = accessExpiry

	cfg.RefreshTokenSecret = viper.GetString("REFRESH_TOKEN_SECRET")
	if cfg.RefreshTokenSecret == "insecure-refresh-secret-change-me" {
		log.Println("Warning: REFRESH_TOKEN_SECRET not set. Using default insecure key. THIS IS NOT FOR PRODUCTION.")
	}

	refreshExpiryStr := viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION")
	refreshExpiry, err := time.ParseDuration(refreshExpiryStr)
	if err != nil {
		refreshExpiry = 10 * 24 * time.Hour
		log.Printf("Warning: Invalid value for REFRESH_TOKEN_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", refreshExpiryStr, refreshExpiry)
	}
	cfg.RefreshTokenExpiryDuration = refreshExpiry

	cfg.MediaUploadURL = viper.GetString("MEDIA_UPLOAD_URL")
	if cfg.MediaUploadURL == "" {
		log.Println("Warning: MEDIA_UPLOAD_URL not set. Registration with media upload will fail.")
	}

	cfg.TempUploadDir = viper.GetString("TEMP_UPLOAD_DIR")

	if origins := viper.GetString("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, trimmed)
			}
		}
	}

	return cfg, nil
}
