package config

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// PasswordConfig holds the bcrypt cost and an optional pepper appended before hashing.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string
}

// NewPasswordConfig reads BCRYPT_COST (default 12, allowed 10-14) and PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	cost, err := envInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, err
	}

	config := &PasswordConfig{
		BcryptCost: cost,
		Pepper:     os.Getenv("PASSWORD_PEPPER"),
	}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// HashPassword hashes a password with bcrypt.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.peppered(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches storedHash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}

// dummyHash is compared against when the account does not exist so unknown
// emails take as long to reject as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("skill-passport-dummy"), bcrypt.MinCost)

// BurnCompare performs a throwaway comparison and always returns false.
func (c *PasswordConfig) BurnCompare(pw string) bool {
	_ = bcrypt.CompareHashAndPassword(dummyHash, c.peppered(pw))
	return false
}
