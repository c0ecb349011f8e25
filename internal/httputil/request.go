package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"cabinet/internal/config"
)

// ParseJSON decodes JSON from the request body into the given destination.
// An empty body leaves dest untouched.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
