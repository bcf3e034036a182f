package http

const (
	// HeaderAuthorization is the HTTP header carrying credentials.
	HeaderAuthorization = "Authorization"

	// HeaderContentType is the HTTP header carrying the body media type.
	HeaderContentType = "Content-Type"

	// ContentTypeJSON is the media type of every API request.
	ContentTypeJSON = "application/json"

	// BearerPrefix precedes the access token in the Authorization header.
	BearerPrefix = "Bearer "

	// redactedValue replaces secrets in debug dumps.
	redactedValue = "[REDACTED]"
)
