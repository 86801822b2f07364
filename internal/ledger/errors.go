package ledger

import "fmt"

// AuthError reports that the wallet API rejected our credentials (401/403).
// It is distinct from transport failures so callers can surface "re-login"
// instead of "try again later".
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("ledger: authorization rejected (status %d)", e.StatusCode)
}

// APIError reports a non-2xx response that is not an auth failure.
type APIError struct {
	StatusCode int
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ledger: %s returned status %d", e.Endpoint, e.StatusCode)
}
