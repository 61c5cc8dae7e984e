package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/authcore-dev/authcore"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates the engine's error taxonomy to a status code.
// Infrastructure failures collapse to a generic 500; their detail stays in
// the server log, never in the response.
func writeError(w http.ResponseWriter, err error) {
	switch authcore.Classify(err) {
	case authcore.KindBadRequest:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case authcore.KindUnauthorized:
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: authcore.ErrUnauthorized.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error"})
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
