package provider

import "errors"

// Sentinel errors for provider operations.
var (
	// ErrRateLimit indicates the provider returned a rate limit response.
	ErrRateLimit = errors.New("provider rate limited")

	// ErrProviderDown indicates the provider is temporarily unavailable.
	ErrProviderDown = errors.New("provider unavailable")

	// ErrAuthentication indicates the provider rejected the credentials.
	ErrAuthentication = errors.New("provider authentication failed")
)

// IsUnavailable reports whether the error represents an upstream failure
// (as opposed to a caller mistake). Used at the HTTP boundary to choose
// a 5xx status.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrProviderDown) || errors.Is(err, ErrRateLimit)
}
