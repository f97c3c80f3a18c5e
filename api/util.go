package api

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/url"
	"strings"

	"github.com/flowci/flow-impex/domain"
	"github.com/flowci/flow-impex/util"
)

const (
	ActionExport = "export"
	ActionImport = "import"

	hostEnvPlaceholder = "{env}"
)

// TransportError marks an error raised from network level
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Classify translate err into ScriptError, transport failure to TRANSPORT_ERROR with its message as cause,
// others to SERVICE_UNAVAILABLE. ScriptError returns as it is.
func Classify(err error, message string) error {
	if err == nil {
		return nil
	}

	var se *domain.ScriptError
	if errors.As(err, &se) {
		return se
	}

	if IsTransportError(err) {
		return domain.NewError(message, domain.ErrTransport, err.Error())
	}

	return domain.NewError(message, domain.ErrServiceUnavailable, err)
}

// IsTransportError reports whether err raised from network level, the local file error is excluded
// since syscall.Errno also implements net.Error
func IsTransportError(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return true
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		return true
	}

	var pe *fs.PathError
	if errors.As(err, &pe) {
		return false
	}

	var ne net.Error
	return errors.As(err, &ne)
}

// BuildEndpoint build api url from base, ex: https://excel.{env}.coherent.global/<tenant>/api/v4/<action>
func BuildEndpoint(base, env, tenant, action string) string {
	host := strings.ReplaceAll(base, hostEnvPlaceholder, strings.TrimSpace(env))
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}

	host = strings.TrimRight(host, "/")
	return fmt.Sprintf("%s/%s/api/v4/%s", host, url.PathEscape(strings.TrimSpace(tenant)), action)
}

func authHeader(token string) string {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(strings.ToLower(token), strings.ToLower(util.HttpAuthBearer)+" ") {
		return token
	}
	return util.HttpAuthBearer + " " + token
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > errBodyLimit {
		return s[:errBodyLimit] + "..."
	}
	return s
}

// trackWriter records the error from underlying writer
type trackWriter struct {
	w   io.Writer
	err error
}

func (t *trackWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil {
		t.err = err
	}
	return n, err
}
