package models

type RegisterRequest struct {
	AccountID string
	Password  string
	IDCard    string
	Name      string
}

type LoginRequest struct {
	AccountID string
	Password  string
}

// LoginAttempts tracks consecutive wrong passwords against one target account.
type LoginAttempts struct {
	AccountID string
	Failures  int
}

type ChangePasswordRequest struct {
	AccountID       string
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}
