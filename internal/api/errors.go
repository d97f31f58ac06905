package api

import (
	"encoding/json"
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	codeInvalidRequest  = "INVALID_REQUEST"
	codeInvalidDocument = "INVALID_DOCUMENT"
	codePublishDisabled = "PUBLISH_DISABLED"
)

// wrapValidationError tags err as a client error so respondError maps it
// to 400.
func wrapValidationError(err error, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "request validation failed").
		WithTextCode(code)
}

// respondError writes err as a JSON error. Validation errors are 400s,
// everything else is a 500.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		status = http.StatusBadRequest
	}
	body := map[string]string{"error": rootCause(err).Error()}
	var ge *goerrors.Error
	if errors.As(err, &ge) && ge.TextCode != "" {
		body["code"] = ge.TextCode
	}
	writeJSON(w, status, body)
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
