package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sevacare/backend/services"
	"github.com/sevacare/backend/utils"
)

// decodeSanitized decodes a JSON request body, strips active-content
// fragments from every string in it, then binds the clean document onto dst.
// Sanitization runs before binding so nested values are covered too.
func decodeSanitized(r *http.Request, dst interface{}) error {
	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return services.ErrMalformedBody
	}

	utils.SanitizeBody(raw)

	buf, err := json.Marshal(raw)
	if err != nil {
		return services.ErrMalformedBody
	}
	if err := json.Unmarshal(buf, dst); err != nil {
		return services.ErrMalformedBody
	}
	return nil
}
