package app

import (
	"context"

	"gigboard/internal/common"
)

// analyticsPayload copies the payload and tags it with the request id so
// events can be correlated with access logs.
func analyticsPayload(ctx context.Context, payload map[string]string) map[string]string {
	out := make(map[string]string, len(payload)+1)
	for key, value := range payload {
		out[key] = value
	}
	if requestID, ok := common.RequestIDFromContext(ctx); ok {
		out["request_id"] = requestID
	}
	return out
}
