// Package responders holds the JSON writer shared by every storefront handler.
package responders

import (
	"encoding/json"
	"net/http"
)

// JSON writes an application/json response with the given status and payload.
// HTML escaping is off: catalog names and chatbot replies carry literal
// ampersands ("C&R") and rupee ranges that must reach the browser unmangled.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
