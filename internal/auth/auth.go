package auth

import (
	"time"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	Identity(userID int64) (*internal.Identity, error)
	HashPassword(password string) (string, error)
}

type RepositoryAPI interface {
	GetPasswordForUsername(username string) (passwordHash string, userID int64, err error)
	GetIdentity(userID int64) (*internal.Identity, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID int64) (token string, err error)
	GenerateRefreshToken(userID int64) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Token types carried in the token_type claim. The claim picks the signing
// secret during validation, so the two token kinds never verify against
// each other's secret.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
