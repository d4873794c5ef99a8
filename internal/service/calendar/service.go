package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/calendar"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

type ServiceImpl struct {
	attendanceRepo attendance.Repository
	timeout        time.Duration
}

func NewCalendarService(attendanceRepo attendance.Repository, persistenceTimeout time.Duration) calendar.Service {
	return &ServiceImpl{
		attendanceRepo: attendanceRepo,
		timeout:        persistenceTimeout,
	}
}

// BuildSummaries groups records by calendar day and tallies statuses.
// Pure and idempotent: the same input always yields the same output,
// sorted by date ascending. Days without records yield no summary.
func BuildSummaries(records []attendance.Record) []calendar.DaySummary {
	groups := make(map[time.Time][]attendance.Record)
	for _, record := range records {
		day := attendance.Day(record.Date)
		groups[day] = append(groups[day], record)
	}

	days := make([]time.Time, 0, len(groups))
	for day := range groups {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	summaries := make([]calendar.DaySummary, 0, len(days))
	for _, day := range days {
		group := groups[day]

		counts := make(map[attendance.Status]int)
		for _, record := range group {
			counts[record.Status]++
		}

		summaries = append(summaries, calendar.DaySummary{
			Date:           day,
			Records:        group,
			StatusCounts:   counts,
			DominantStatus: dominantStatus(counts),
			Summary:        summaryLine(counts),
		})
	}
	return summaries
}

// dominantStatus returns the most frequent status; ties resolve in
// the fixed priority order present > absent > on_leave.
func dominantStatus(counts map[attendance.Status]int) attendance.Status {
	var dominant attendance.Status
	best := 0
	for _, status := range attendance.Statuses {
		if counts[status] > best {
			dominant = status
			best = counts[status]
		}
	}
	return dominant
}

// summaryLine renders "2 Present, 1 Absent" style text, statuses in
// descending count order with the priority order breaking ties.
func summaryLine(counts map[attendance.Status]int) string {
	ordered := make([]attendance.Status, 0, len(counts))
	for _, status := range attendance.Statuses {
		if counts[status] > 0 {
			ordered = append(ordered, status)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return counts[ordered[i]] > counts[ordered[j]]
	})

	parts := make([]string, 0, len(ordered))
	for _, status := range ordered {
		parts = append(parts, fmt.Sprintf("%d %s", counts[status], status.Label()))
	}
	return strings.Join(parts, ", ")
}

// Aggregate implements calendar.Service.
func (s *ServiceImpl) Aggregate(ctx context.Context, startDate, endDate string) (calendar.CalendarResponse, error) {
	var errs validator.ValidationErrors

	start, valid := validator.IsValidDate(startDate)
	if !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, valid := validator.IsValidDate(endDate)
	if !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if len(errs) == 0 && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}
	if len(errs) > 0 {
		return calendar.CalendarResponse{}, errs
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, err := s.attendanceRepo.ListRange(opCtx, start, end)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return calendar.CalendarResponse{}, attendance.ErrTimeout
		}
		return calendar.CalendarResponse{}, fmt.Errorf("failed to list records in range: %w", err)
	}

	summaries := BuildSummaries(records)

	days := make([]calendar.DaySummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		counts := make(map[string]int, len(summary.StatusCounts))
		for status, count := range summary.StatusCounts {
			counts[string(status)] = count
		}
		days = append(days, calendar.DaySummaryResponse{
			Date:           summary.Date.Format("2006-01-02"),
			StatusCounts:   counts,
			DominantStatus: string(summary.DominantStatus),
			Summary:        summary.Summary,
			RecordCount:    len(summary.Records),
		})
	}

	return calendar.CalendarResponse{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Days:      days,
	}, nil
}
