package apperr

// Sentinels shared by every service. Compare with errors.Is.
var (
	ErrValidation = New(CodeValidation, "invalid value")

	ErrUsernameTaken      = New(CodeConflict, "username already taken")
	ErrInvalidCredentials = New(CodeUnauthorized, "incorrect username or password")
	ErrImmutableField     = New(CodeValidation, "field is immutable")

	ErrTokenInvalid   = New(CodeUnauthorized, "invalid token")
	ErrTokenExpired   = New(CodeUnauthorized, "token expired")
	ErrWrongTokenType = New(CodeUnauthorized, "unexpected token type")
	ErrTokenRevoked   = New(CodeUnauthorized, "refresh token has been revoked")

	ErrForbidden = New(CodeForbidden, "admin access required")
	ErrNotFound  = New(CodeNotFound, "not found")

	ErrCabinConflict = New(CodeConflict, "passengers of different ticket classes cannot share a cabin")
)
