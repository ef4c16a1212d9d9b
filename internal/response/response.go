// Package response provides shared JSON response helpers for HTTP handlers.
//
// Every JSON reply uses the same two-field envelope: on success the content
// carries the public URL of the stored object, on failure a human-readable
// rejection message. Internal error detail never reaches the content field.
package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire format for every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
}

// JSON writes an envelope with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 success envelope with content.
func OK(w http.ResponseWriter, content string) {
	JSON(w, http.StatusOK, Envelope{Success: true, Content: content})
}

// Reject writes a business rejection. The request was well-formed HTTP, so
// the status stays 200 and the envelope carries the rejection message.
func Reject(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, Envelope{Success: false, Content: message})
}

// BadRequest writes a 400 envelope for malformed or oversized requests.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, Envelope{Success: false, Content: message})
}

// InternalError writes a 500 envelope with a generic message.
func InternalError(w http.ResponseWriter) {
	JSON(w, http.StatusInternalServerError, Envelope{Success: false, Content: "Internal server error"})
}

// notFoundPage mirrors the plain HTML page served for unknown objects.
const notFoundPage = `<html>
    <head>
        <title>404 NOT FOUND</title>
    </head>
    <body>
        <h1>404 NOT FOUND</h1>
    </body>
</html>
`

// NotFound writes the HTML 404 page.
func NotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(notFoundPage))
}
