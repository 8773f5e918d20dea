package service

import (
	"fmt"

	"github.com/dgrijalva/jwt-go"
	"github.com/youcefmohamedelamine/telegram-bot/internal/config"
	"github.com/youcefmohamedelamine/telegram-bot/internal/domain"
	"github.com/youcefmohamedelamine/telegram-bot/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the store owner for the out-of-band admin
// endpoints. There is no self-service signup: the single admin account comes
// from configuration, password stored as a bcrypt hash.
type AuthService struct {
	config *config.Config
}

func NewAuthService(config *config.Config) *AuthService {
	return &AuthService{
		config: config,
	}
}

func (s *AuthService) Login(login, password string) (string, error) {
	if login != s.config.AdminLogin {
		logger.Log.Warn("incorrect admin login", logger.String("login", login))
		return "", domain.ErrIncorrectCredentials
	}

	err := bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(password))
	if err != nil {
		logger.Log.Warn("incorrect admin password", logger.String("login", login))
		return "", domain.ErrIncorrectCredentials
	}

	return generateJWTToken(login, s.config.PrivateKey)
}

func generateJWTToken(subject, privateKey string) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(privateKey))
	if err != nil {
		return "", fmt.Errorf("error while signing token: %w", err)
	}

	return signedToken, nil
}
