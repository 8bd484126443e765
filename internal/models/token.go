package models

import "github.com/google/uuid"

// TokenPair is issued at login and registration.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int    `json:"expiresIn"` // access token lifetime in seconds
}

// AuthResponse mirrors the login/register payload: the public user fields plus
// the issued tokens.
type AuthResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
	Avatar string    `json:"avatar"`
	TokenPair
}

// NewAuthResponse builds the login/register payload for user.
func NewAuthResponse(user *User, tokens *TokenPair) *AuthResponse {
	return &AuthResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Avatar:    user.Avatar,
		TokenPair: *tokens,
	}
}

// RefreshResponse carries only a new access token; the refresh token is not rotated.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}
