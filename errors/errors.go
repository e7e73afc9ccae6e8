package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	ErrJobNotFound     = fmt.Errorf("job not found")
	ErrEmployerOffline = fmt.Errorf("employer not connected")
	ErrSessionUnknown  = fmt.Errorf("session unknown")
)

// HTTPStatus maps the domain error taxonomy to a response code for the
// request/response facade. Anything outside the taxonomy is a persistence
// or delivery fault and surfaces as a 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.Is(err, ErrJobNotFound), stderrors.Is(err, ErrEmployerOffline):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
