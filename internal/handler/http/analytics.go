package http

import (
	"net/http"

	"github.com/attendly/attendance-backend-go/internal/domain/analytics"
	"github.com/attendly/attendance-backend-go/internal/handler/http/response"
)

type AnalyticsHandler interface {
	Snapshot(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.Service
}

func NewAnalyticsHandler(analyticsService analytics.Service) AnalyticsHandler {
	return &analyticsHandlerImpl{
		analyticsService: analyticsService,
	}
}

// Snapshot implements AnalyticsHandler.
func (h *analyticsHandlerImpl) Snapshot(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.Compute(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
