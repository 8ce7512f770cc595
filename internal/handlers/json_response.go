package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

const msgInternalError = "Internal server error"

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": status < http.StatusBadRequest,
		"message": message,
	})
}

// writeFieldErrors answers 400 with per-field error messages.
func writeFieldErrors(w http.ResponseWriter, message string, fields map[string]string) {
	body := map[string]any{"success": false, "errors": fields}
	if message != "" {
		body["message"] = message
	}
	writeJSON(w, http.StatusBadRequest, body)
}

// writeInternalError logs err with the request logger and answers with a
// generic 500 so nothing internal reaches the client.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	hlog.FromRequest(r).Error().Err(err).Str("operation", operation).Msg("request failed")
	writeJSONMessage(w, http.StatusInternalServerError, msgInternalError)
}

// decodeBody reads a JSON object body. An empty body decodes to an empty map.
func decodeBody(r *http.Request) (map[string]any, error) {
	body := map[string]any{}
	if r.Body == nil {
		return body, nil
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if errors.Is(err, io.EOF) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}

// stringFields extracts the named fields as strings. ok is false when any of
// them holds a non-string value.
func stringFields(input map[string]any, names ...string) (map[string]string, bool) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		switch v := input[name].(type) {
		case string:
			out[name] = v
		case nil:
			out[name] = ""
		default:
			return nil, false
		}
	}
	return out, true
}
