package config

import (
	"time"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/utils"
)

type Config struct {
	Port          string
	PublicURL     string
	OperatorToken string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	InactivityDaysBeforeArchive int
	ArchiveSweepSpec            string
}

func Load(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	return Config{
		Port:                        utils.GetEnv("PORT", "8080", log),
		PublicURL:                   utils.GetEnv("PUBLIC_URL", "http://localhost:8080", log),
		OperatorToken:               utils.GetEnv("OPERATOR_TOKEN", "", log),
		JWTSecretKey:                jwtSecretKey,
		AccessTokenTTL:              time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL:             time.Duration(refreshTokenTTLSeconds) * time.Second,
		InactivityDaysBeforeArchive: utils.GetEnvAsInt("INACTIVITY_DAYS_BEFORE_ARCHIVE", 7, log),
		ArchiveSweepSpec:            utils.GetEnv("ARCHIVE_SWEEP_CRON", "@every 6h", log),
	}
}
