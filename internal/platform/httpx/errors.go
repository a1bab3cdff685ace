package httpx

import (
	"errors"
	"net/http"

	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

// RespondError maps domain errors to HTTP responses. Internal details are
// never echoed to the client; unexpected failures collapse to a generic 500.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		Error(w, http.StatusBadRequest, "Invalid request.")
	case errors.Is(err, shared.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "Invalid identifier or password.")
	case errors.Is(err, shared.ErrUnauthorized):
		Error(w, http.StatusUnauthorized, "Unauthorized.")
	case errors.Is(err, shared.ErrForbidden):
		Error(w, http.StatusForbidden, "Forbidden.")
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, shared.ErrDuplicate):
		Error(w, http.StatusConflict, "Already exists.")
	default:
		Error(w, http.StatusInternalServerError, "Server error.")
	}
}
