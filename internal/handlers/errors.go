package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"familycoach/internal/logger"
	"familycoach/internal/service"
	"familycoach/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// kindStatus maps error kinds to HTTP status codes
var kindStatus = map[string]int{
	service.KindValidation:    http.StatusBadRequest,
	service.KindNotFound:      http.StatusNotFound,
	service.KindAuthorization: http.StatusForbidden,
	service.KindInvalidState:  http.StatusConflict,
	service.KindInternal:      http.StatusInternalServerError,
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondWithError writes err as {"error","kind"}. Internal errors are logged
// and replaced by a generic message.
func respondWithError(w http.ResponseWriter, log *logger.Logger, logMsg string, err error) {
	kind := service.KindOf(err)
	var verr validation.ValidationError
	if errors.As(err, &verr) {
		kind = service.KindValidation
	}

	msg := err.Error()
	if kind == service.KindInternal {
		if logMsg == "" {
			logMsg = ErrInternalServerError
		}
		log.Error(logMsg, "error", err)
		msg = ErrInternalServerError
	}

	respondJSON(w, kindStatus[kind], errorResponse{Error: msg, Kind: kind})
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched when
// allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return validation.ValidationError{Field: "body", Message: ErrInvalidJSON}
	}
	return nil
}
