package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"gigboard/internal/common"
	"gigboard/internal/http/metrics"
)

var errorCollector *metrics.Collector

// SetErrorCollector wires the metrics collector so server-side failures are
// counted at the single point every error response passes through.
func SetErrorCollector(collector *metrics.Collector) {
	errorCollector = collector
}

type errorBody struct {
	Code    common.Code       `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func Error(w http.ResponseWriter, err error) {
	code := common.CodeOf(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError && errorCollector != nil {
		errorCollector.IncErrors()
	}

	body := errorBody{Code: code, Message: "internal error"}
	var appErr *common.Error
	if errors.As(err, &appErr) {
		body.Message = appErr.Message
		body.Fields = appErr.Fields
	}
	JSON(w, status, map[string]errorBody{"error": body})
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden, common.CodeAccessDenied:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeDuplicateApplication, common.CodeDuplicateInquiry, common.CodeConflict:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	case common.CodeValidation, common.CodeJobUnavailable, common.CodeMissingCompany, common.CodeInvalidStage:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
