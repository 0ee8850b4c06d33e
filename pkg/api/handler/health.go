package handler

import (
	"net/http"

	"github.com/familybot/companion/pkg/api/response"
)

type health struct {
	reporter HealthReporter
	writer   response.JSONResponseWriter
}

func NewHealth(reporter HealthReporter) *health {
	return &health{
		reporter: reporter,
		writer:   response.JSONResponseWriter{},
	}
}

type healthResponse struct {
	Status  string `json:"status"`
	Gateway string `json:"gateway"`
}

func (h *health) Check(w http.ResponseWriter, _ *http.Request) {
	gatewayStatus := "unreachable"
	if h.reporter.Healthy() {
		gatewayStatus = "ok"
	}

	// The client itself is always "ok": an unreachable gateway degrades
	// features, it does not take the companion down.
	h.writer.WriteSuccessResponse(w, healthResponse{
		Status:  "ok",
		Gateway: gatewayStatus,
	})
}
