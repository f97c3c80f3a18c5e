package util

const (
	HttpMimeJson      = "application/json"
	HttpMimeMultipart = "multipart/form-data"

	HttpHeaderContentType   = "Content-Type"
	HttpHeaderAuthorization = "Authorization"
	HttpHeaderAccept        = "Accept"

	HttpAuthBearer = "Bearer"
)
