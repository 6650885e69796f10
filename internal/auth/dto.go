package auth

import "github.com/frahmantamala/workorder-management/internal"

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d LoginDTO) Validate() error {
	if d.Username == "" {
		return internal.NewValidationError("username is required", internal.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return internal.NewValidationError("refresh_token is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
