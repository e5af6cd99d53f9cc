package test

import (
	"encoding/json"
	"net/http"
)

// extractResp decodes a JSON response body into a svc.Resp.
func extractResp(
	r *http.Response,
	raw interface{},
) error {
	return json.NewDecoder(r.Body).Decode(raw)
}
