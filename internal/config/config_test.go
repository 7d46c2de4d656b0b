package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OTP_TTL", "")
	t.Setenv("OTP_MAX_ATTEMPTS", "")
	t.Setenv("DEV_AUTH", "")

	cfg := Load()
	if cfg.OTPTTL != 5*time.Minute {
		t.Fatalf("unexpected otp ttl: %v", cfg.OTPTTL)
	}
	if cfg.OTPMaxAttempts != 5 {
		t.Fatalf("unexpected max attempts: %d", cfg.OTPMaxAttempts)
	}
	if cfg.DevAuth {
		t.Fatalf("dev auth should default to off")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OTP_TTL", "90s")
	t.Setenv("OTP_RESEND_INTERVAL", "10s")
	t.Setenv("OTP_MAX_ATTEMPTS", "3")
	t.Setenv("DEV_AUTH", "true")
	t.Setenv("OTP_STORE", "redis")

	cfg := Load()
	if cfg.OTPTTL != 90*time.Second || cfg.OTPResendInterval != 10*time.Second {
		t.Fatalf("durations not applied: %v %v", cfg.OTPTTL, cfg.OTPResendInterval)
	}
	if cfg.OTPMaxAttempts != 3 {
		t.Fatalf("unexpected max attempts: %d", cfg.OTPMaxAttempts)
	}
	if !cfg.DevAuth || cfg.OTPStore != "redis" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("OTP_MAX_ATTEMPTS", "-2")
	t.Setenv("TOKEN_TTL", "soon")

	cfg := Load()
	if cfg.OTPMaxAttempts != 5 {
		t.Fatalf("expected default attempts, got %d", cfg.OTPMaxAttempts)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected default token ttl, got %v", cfg.TokenTTL)
	}
}
