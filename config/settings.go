package config

import (
	"os"
	"strconv"
	"time"

	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/service"
)

// SweepSettings controls the optional in-process retention sweeper.
// Interval 0 disables it; an external scheduler can drive the admin
// sweep endpoint instead.
type SweepSettings struct {
	Interval  time.Duration
	Retention time.Duration
}

func VerificationSettings() service.Settings {
	return service.Settings{
		CodeTTL:                 envDuration("VERIFY_CODE_TTL", 3*time.Minute),
		MaxAttempts:             envInt("VERIFY_MAX_ATTEMPTS", 5),
		BlockDuration:           envDuration("VERIFY_BLOCK_DURATION", 30*time.Minute),
		ResendCooldown:          envDuration("VERIFY_RESEND_COOLDOWN", 60*time.Second),
		KeepRecordOnSendFailure: envBool("VERIFY_KEEP_ON_SEND_FAILURE", false),
	}
}

func SweeperSettings() SweepSettings {
	return SweepSettings{
		Interval:  envDuration("VERIFY_SWEEP_INTERVAL", 0),
		Retention: envDuration("VERIFY_SWEEP_RETENTION", 24*time.Hour),
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
