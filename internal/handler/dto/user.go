package dto

import "github.com/contactly/contactly/internal/model"

// RegisterRequest represents the request body for registering a user.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest represents a partial profile update.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// UserResponse represents a user in API responses. Secrets are never included.
type UserResponse struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// LoginResponse carries the plaintext token, shown once per login.
type LoginResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Token    string `json:"token"`
}

// RegisterConflictResponse echoes the submitted profile next to the error.
type RegisterConflictResponse struct {
	Data   UserResponse        `json:"data"`
	Errors map[string][]string `json:"errors"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
	}
}

// ToLoginResponse converts a Session to LoginResponse DTO.
func ToLoginResponse(session *model.Session) LoginResponse {
	return LoginResponse{
		ID:       session.User.ID,
		Username: session.User.Username,
		Name:     session.User.Name,
		Token:    session.Token,
	}
}
