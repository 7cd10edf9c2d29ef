package dto

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name     string `json:"name" example:"Asha Verma"`
	Email    string `json:"email" example:"asha@example.com"`
	Password string `json:"password" example:"s3cure-pass"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" example:"asha@example.com"`
	Password string `json:"password" example:"s3cure-pass"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID    int64  `json:"id" example:"1"`
	Name  string `json:"name" example:"Asha Verma"`
	Email string `json:"email" example:"asha@example.com"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Success bool         `json:"success" example:"true"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}
