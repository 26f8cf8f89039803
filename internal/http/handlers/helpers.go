package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"gigboard/internal/common"
)

func decodeJSON(r *http.Request, target interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return common.NewError(common.CodeValidation, "invalid json body", err)
	}
	return nil
}

// idFromPath parses path segment at index as a UUID; for "/applications/{id}"
// the id sits at index 2.
func idFromPath(r *http.Request, index int) (common.UUID, error) {
	segments := strings.Split(r.URL.Path, "/")
	if index >= len(segments) {
		return "", common.NewError(common.CodeValidation, "missing id in path", nil)
	}
	parsed, err := common.ParseUUID(segments[index])
	if err != nil {
		return "", common.NewValidationError("invalid request", map[string]string{"id": "invalid uuid"})
	}
	return parsed, nil
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "authentication required", nil)
}
