package errors

// Error codes returned in the "error" field of every failure response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients branch on the code, never on the message.

const (
	// Authentication
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthResetPending       = "AUTH_RESET_PENDING"
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthResetCodeInvalid   = "AUTH_RESET_CODE_INVALID"
	AuthWrongPassword      = "AUTH_WRONG_PASSWORD"
	AuthPasswordMismatch   = "AUTH_PASSWORD_MISMATCH"

	// Authorization
	AuthzForbidden        = "AUTHZ_FORBIDDEN"
	AuthzStaffOnly        = "AUTHZ_STAFF_ONLY"
	AuthzOwnerOnly        = "AUTHZ_OWNER_ONLY"
	AuthzResetSessionOnly = "AUTHZ_RESET_SESSION_ONLY"

	// Validation
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// Resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// Catalog
	CatalogUnresolvedNames = "CATALOG_UNRESOLVED_NAMES"
	CatalogGameExists      = "CATALOG_GAME_EXISTS"

	// Uploads
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadUnavailable     = "UPLOAD_UNAVAILABLE"

	// Internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
