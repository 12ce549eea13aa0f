package response

// Standard messages and codes for the JSON envelope.
const (
	MessageSuccess      = "Success"
	DefaultErrorMessage = "Something went wrong"

	InternalServerErrorCode = 500
	NotFoundErrorCode       = 404
)

// DateTimeFormat is the wire format used by the DateTime marshaler.
const DateTimeFormat = "2006-01-02 15:04:05"
