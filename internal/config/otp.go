package config

import (
	"fmt"
	"time"
)

// OTPConfig controls signup verification codes and cleanup of abandoned signups.
type OTPConfig struct {
	// TTL is how long a code stays valid.
	TTL time.Duration
	// Retention is how long an unverified account is kept after its code expires.
	Retention time.Duration
	// SweepInterval is how often abandoned signups are deleted. Zero disables the sweeper.
	SweepInterval time.Duration
	// TestMode echoes the code in signup responses. Never enable in production.
	TestMode bool
}

// NewOTPConfig reads OTP_TTL (10m), UNVERIFIED_RETENTION (24h), SWEEP_INTERVAL (1h) and OTP_TEST_MODE.
func NewOTPConfig() (*OTPConfig, error) {
	ttl, err := envDuration("OTP_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	retention, err := envDuration("UNVERIFIED_RETENTION", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	sweep, err := envDuration("SWEEP_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	testMode, err := envBool("OTP_TEST_MODE", false)
	if err != nil {
		return nil, err
	}

	config := &OTPConfig{
		TTL:           ttl,
		Retention:     retention,
		SweepInterval: sweep,
		TestMode:      testMode,
	}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *OTPConfig) normalize() error {
	if c.TTL < time.Minute {
		return fmt.Errorf("OTP_TTL must be at least 1m, got: %s", c.TTL)
	}
	if c.Retention < 0 {
		return fmt.Errorf("UNVERIFIED_RETENTION cannot be negative, got: %s", c.Retention)
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("SWEEP_INTERVAL cannot be negative, got: %s", c.SweepInterval)
	}
	return nil
}
