package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")

	// API and service errors
	ErrAPIRequest    = fmt.Errorf("API request failed")
	ErrInvalidRecord = fmt.Errorf("invalid record")

	// Persistence errors
	ErrNotFound = fmt.Errorf("record not found")

	// Site build errors
	ErrBuildFailed      = fmt.Errorf("site build failed")
	ErrHugoNotInstalled = fmt.Errorf("hugo is not installed or not in PATH")
	ErrLocked           = fmt.Errorf("workspace is locked by another process")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
