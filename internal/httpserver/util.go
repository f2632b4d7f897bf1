package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxBodyBytes caps request bodies; no storefront payload comes close to 1 MiB.
const maxBodyBytes = 1 << 20

// decodeJSON strictly decodes a request body into dst. Unknown fields are
// rejected so clients cannot smuggle ignored data (price overrides and the
// like) past validation.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
