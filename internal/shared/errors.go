package shared

import "fmt"

var (
	// Configuration errors: fatal, the user must (re-)run setup
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authorization flow errors: terminal to setup, never retried
	ErrAuthFailed = fmt.Errorf("authorization failed")
	ErrTimeout    = fmt.Errorf("operation timed out")

	// Remote API errors, mapped from response status codes.
	//
	// ErrAuthRejected (401/403) means the user token was revoked and setup
	// must be re-run; ErrRateLimited (429) is left to the caller; ErrUpstream
	// covers 5xx responses. None of these are retried locally.
	ErrAuthRejected = fmt.Errorf("service rejected credentials")
	ErrRateLimited  = fmt.Errorf("rate limited")
	ErrUpstream     = fmt.Errorf("service unavailable")
	ErrAPIRequest   = fmt.Errorf("API request failed")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrUnknownTool     = fmt.Errorf("unknown tool")
)
