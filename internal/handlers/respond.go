package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
)

const maxBodyBytes = 1 << 20

const msgInvalidBody = "Invalid request body"

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// internalError is where every unexpected failure ends up: it is logged
// with the request id and the client gets a uniform 500.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("[%s] %s %s failed: %v", requestID(r), r.Method, r.URL.Path, err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if !errors.Is(err, io.EOF) {
			log.Printf("[%s] Invalid request body: %v", requestID(r), err)
		}
		return err
	}
	return nil
}
