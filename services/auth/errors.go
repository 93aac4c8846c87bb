package auth

// AuthError signals failed authentication: bad credentials, revoked or
// expired sessions.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// NewAuthError wraps a message in an AuthError.
func NewAuthError(msg string) error {
	return &AuthError{Message: msg}
}
