package dto

// ErrorCode is the machine-readable failure class sent alongside error messages.
type ErrorCode string

const (
	CodeNotAuthenticated   ErrorCode = "NOT_AUTHENTICATED"
	CodeIndexMissing       ErrorCode = "INDEX_MISSING"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeWeakPassword       ErrorCode = "WEAK_PASSWORD"
	CodeEmailInUse         ErrorCode = "EMAIL_IN_USE"
	CodeInvalidEmail       ErrorCode = "INVALID_EMAIL"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeBadRequest         ErrorCode = "BAD_REQUEST"
	CodeInternal           ErrorCode = "INTERNAL"
)
