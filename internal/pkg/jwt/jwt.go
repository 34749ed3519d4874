package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
)

// Service issues and verifies the bearer tokens guarding mutating
// payroll endpoints. The engine has no user accounts; tokens identify
// the calling system (UI, import tooling) which is assumed to have
// authorized the action already.
type Service interface {
	GenerateAccessToken(subject string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey      string
	expirationTime string
	tokenAuth      *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, expirationTime string) Service {
	return &JWTService{
		secretKey:      secretKey,
		expirationTime: expirationTime,
		tokenAuth:      jwtauth.New("HS256", []byte(secretKey), nil),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(subject string) (string, int64, error) {
	expDuration, err := time.ParseDuration(j.expirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt := time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"sub":  subject,
		"type": "access",
		"exp":  expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return "", 0, err
	}
	return tokenString, expiresAt, nil
}
