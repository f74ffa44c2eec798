package auth

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotConfigured      = errors.New("auth not configured")
)

// credentialError narrows ErrInvalidCredentials to the reason shown to the user.
type credentialError struct {
	message string
}

func (e *credentialError) Error() string        { return e.message }
func (e *credentialError) Is(target error) bool { return target == ErrInvalidCredentials }

var (
	errAccountNotFound = &credentialError{message: "No account found with this email"}
	errWrongPassword   = &credentialError{message: "Incorrect password"}
)

// FieldError reports the first failing form rule.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }
func (e *FieldError) Unwrap() error { return ErrInvalidInput }

// Message maps an auth error to the text shown on the sign-in forms.
func Message(err error) string {
	var fe *FieldError
	var ce *credentialError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fe):
		return fe.Message
	case errors.Is(err, ErrEmailTaken):
		return "This email is already registered"
	case errors.As(err, &ce):
		return ce.message
	case errors.Is(err, ErrInvalidCredentials):
		return "Incorrect password"
	default:
		return "An error occurred. Please try again"
	}
}
