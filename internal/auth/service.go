package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	bcryptCost     int
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	storedHash, userID, err := s.repo.GetPasswordForUsername(dto.Username)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens validates a refresh token and rotates the pair
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return AuthTokens{}, internal.ErrInvalidToken
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(claims.UserID)
	if err != nil {
		return AuthTokens{}, err
	}

	newRefreshToken, err := s.tokenGenerator.GenerateRefreshToken(claims.UserID)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// ValidateAccessToken verifies the token and refuses refresh tokens, so a
// refresh token can never serve as an API bearer token.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

// Identity loads the normalized identity tuple for an authenticated user id.
func (s *Service) Identity(userID int64) (*internal.Identity, error) {
	return s.repo.GetIdentity(userID)
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (j *JWTTokenGenerator) GenerateAccessToken(userID int64) (string, error) {
	return j.generate(userID, TokenTypeAccess, j.AccessTokenSecret, j.AccessTokenTTL)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(userID int64) (string, error) {
	return j.generate(userID, TokenTypeRefresh, j.RefreshTokenSecret, j.RefreshTokenTTL)
}

func (j *JWTTokenGenerator) generate(userID int64, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(userID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		if claims, ok := token.Claims.(*Claims); ok && claims.TokenType == TokenTypeRefresh {
			return j.RefreshTokenSecret, nil
		}
		return j.AccessTokenSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}
