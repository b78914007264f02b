package apierrors

const (
	CodeValidation     = "validation_error"
	CodeAuthentication = "authentication_error"
	CodeAuthorization  = "authorization_error"
	CodeNotFound       = "not_found"
	CodeConflict       = "conflict"
	CodeInternal       = "internal_error"
)

const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgInternalError      = "Internal server error"
	MsgProjectNotFound    = "Project not found"
	MsgTaskNotFound       = "Task not found"
)
