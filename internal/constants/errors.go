package constants

import "errors"

// Configuration errors.
var (
	ErrNoProfilesConfigured = errors.New("no profiles configured, use 'ghostctl config init' to add one")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileExists        = errors.New("profile already exists")
	ErrNoAPIURL             = errors.New("no API URL configured")
	ErrNoAdminKey           = errors.New("no admin API key configured")
	ErrInvalidOutputFormat  = errors.New("invalid output format")
	ErrInvalidCacheType     = errors.New("invalid cache type")
)

// Input errors.
var (
	ErrInvalidKeyValue    = errors.New("expected key=value")
	ErrUnsupportedField   = errors.New("unsupported field")
	ErrNothingToUpdate    = errors.New("nothing to update")
	ErrExportExtension    = errors.New("export file must have a .json or .json.gz extension")
	ErrIDOrSlugRequired   = errors.New("an id or --slug is required")
	ErrInvalidPublishTime = errors.New("invalid publish time, expected RFC 3339")
)
