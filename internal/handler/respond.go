package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// validationErrors collects field-keyed messages for a 422 response in the
// shape the SPA expects: {"message": ..., "errors": {"field": ["msg", ...]}}.
type validationErrors map[string][]string

func (v validationErrors) add(field, msg string) {
	v[field] = append(v[field], msg)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeValidationErrors(w http.ResponseWriter, errs validationErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"message": "The given data was invalid.",
		"errors":  errs,
	})
}

// writeFieldError is the single-field shorthand for writeValidationErrors.
func writeFieldError(w http.ResponseWriter, field, msg string) {
	writeValidationErrors(w, validationErrors{field: {msg}})
}

func writeInternalError(w http.ResponseWriter, op string, err error) {
	log.Printf("ERROR: %s: %v", op, err)
	writeMessage(w, http.StatusInternalServerError, "internal server error")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
