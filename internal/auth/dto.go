package auth

import "github.com/frahmantamala/budget-approval/internal/user"

// RegisterDTO is the transport shape for registration requests.
type RegisterDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Validate checks required fields and the closed role set.
func (d RegisterDTO) Validate() error {
	if d.Email == "" || d.Password == "" || d.Role == "" {
		return ValidationError{Msg: "All fields (email, password, role) are required."}
	}
	if _, err := user.ParseRole(d.Role); err != nil {
		return ValidationError{Msg: "Role must be one of Employee, Manager, Admin."}
	}
	return nil
}

// Validate checks required fields and returns a ValidationError on failure.
func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}
