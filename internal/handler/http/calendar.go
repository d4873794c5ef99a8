package http

import (
	"net/http"

	"github.com/attendly/attendance-backend-go/internal/domain/calendar"
	"github.com/attendly/attendance-backend-go/internal/handler/http/response"
)

type CalendarHandler interface {
	Aggregate(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	calendarService calendar.Service
}

func NewCalendarHandler(calendarService calendar.Service) CalendarHandler {
	return &calendarHandlerImpl{
		calendarService: calendarService,
	}
}

// Aggregate implements CalendarHandler.
func (h *calendarHandlerImpl) Aggregate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	result, err := h.calendarService.Aggregate(r.Context(), query.Get("start_date"), query.Get("end_date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
