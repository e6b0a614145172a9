package services

import (
	"atm-simulator/internal/utils"
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	cost int
}

func NewAuthService(cost int) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	utils.LogDebug("AuthService", "password hashing with bcrypt cost %d", cost)
	return &AuthService{cost: cost}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		utils.LogError("AuthService", "password hashing failed", err)
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword compares password with a stored value. Stores written before
// hashing was introduced hold the plain 6 digits; those still match, and
// legacy reports that the value should be re-hashed.
func (s *AuthService) CheckPassword(password, stored string) (ok, legacy bool) {
	if stored == "" {
		return false, false
	}
	if !isBcryptHash(stored) {
		return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1, true
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
