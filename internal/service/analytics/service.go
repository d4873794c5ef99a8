package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/analytics"
	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/clock"
	"golang.org/x/sync/errgroup"
)

// topAttendanceSize caps the leaderboard returned in snapshots.
const topAttendanceSize = 5

type ServiceImpl struct {
	attendanceRepo attendance.Repository
	clock          clock.Clock
	timeout        time.Duration
}

func NewAnalyticsService(attendanceRepo attendance.Repository, clk clock.Clock, persistenceTimeout time.Duration) analytics.Service {
	return &ServiceImpl{
		attendanceRepo: attendanceRepo,
		clock:          clk,
		timeout:        persistenceTimeout,
	}
}

// Compute implements analytics.Service.
func (s *ServiceImpl) Compute(ctx context.Context) (analytics.Snapshot, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, err := s.attendanceRepo.ListAll(opCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return analytics.Snapshot{}, attendance.ErrTimeout
		}
		return analytics.Snapshot{}, fmt.Errorf("failed to load attendance records: %w", err)
	}

	return BuildSnapshot(ctx, records, s.clock.Now())
}

// BuildSnapshot computes every analytics section over the supplied
// record set as of the given instant. Read-only: the input is never
// mutated, and an empty record set yields a zero-valued snapshot.
func BuildSnapshot(ctx context.Context, records []attendance.Record, asOf time.Time) (analytics.Snapshot, error) {
	var snapshot analytics.Snapshot

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		snapshot.Trend = trendSeries(records)
		return nil
	})

	g.Go(func() error {
		snapshot.StatusBreakdown = statusBreakdown(records)
		return nil
	})

	g.Go(func() error {
		ranks := punctualityRanking(records)
		snapshot.TopAttendance = topOf(ranks, topAttendanceSize)
		snapshot.MostPunctual, snapshot.LeastPunctual = punctualityExtremes(ranks)
		return nil
	})

	g.Go(func() error {
		snapshot.TotalPunchesToday, snapshot.TotalPunchesThisMonth, snapshot.AvgPunchesPerEmployee = punchTotals(records, asOf)
		return nil
	})

	if err := g.Wait(); err != nil {
		return analytics.Snapshot{}, err
	}

	return snapshot, nil
}

// trendSeries buckets records by (year, month) and tallies statuses
// per bucket, ordered chronologically.
func trendSeries(records []attendance.Record) []analytics.TrendPoint {
	type bucket struct {
		year  int
		month int
	}

	tally := make(map[bucket]*analytics.TrendPoint)
	for _, record := range records {
		day := attendance.Day(record.Date)
		key := bucket{year: day.Year(), month: int(day.Month())}
		point, ok := tally[key]
		if !ok {
			point = &analytics.TrendPoint{Year: key.year, Month: key.month}
			tally[key] = point
		}
		switch record.Status {
		case attendance.StatusPresent:
			point.Present++
		case attendance.StatusAbsent:
			point.Absent++
		case attendance.StatusOnLeave:
			point.OnLeave++
		}
	}

	series := make([]analytics.TrendPoint, 0, len(tally))
	for _, point := range tally {
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool {
		if series[i].Year != series[j].Year {
			return series[i].Year < series[j].Year
		}
		return series[i].Month < series[j].Month
	})
	return series
}

// statusBreakdown tallies statuses across the whole record set, in
// the fixed present/absent/on_leave order.
func statusBreakdown(records []attendance.Record) []analytics.StatusCount {
	counts := make(map[attendance.Status]int)
	for _, record := range records {
		counts[record.Status]++
	}

	breakdown := make([]analytics.StatusCount, 0, len(attendance.Statuses))
	for _, status := range attendance.Statuses {
		breakdown = append(breakdown, analytics.StatusCount{
			Status: string(status),
			Count:  counts[status],
		})
	}
	return breakdown
}

// punctualityRanking counts IN punches per employee, descending;
// ties resolve to the lexically smallest employee ID. Every employee
// with at least one record appears, punches or not.
func punctualityRanking(records []attendance.Record) []analytics.EmployeeRank {
	byEmployee := make(map[string]*analytics.EmployeeRank)
	for _, record := range records {
		rank, ok := byEmployee[record.EmployeeID]
		if !ok {
			rank = &analytics.EmployeeRank{
				EmployeeID:   record.EmployeeID,
				EmployeeName: record.EmployeeName,
			}
			byEmployee[record.EmployeeID] = rank
		}
		for _, punch := range record.Punches {
			if punch.Type == attendance.PunchIn {
				rank.PunchCount++
			}
		}
	}

	ranks := make([]analytics.EmployeeRank, 0, len(byEmployee))
	for _, rank := range byEmployee {
		ranks = append(ranks, *rank)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].PunchCount != ranks[j].PunchCount {
			return ranks[i].PunchCount > ranks[j].PunchCount
		}
		return ranks[i].EmployeeID < ranks[j].EmployeeID
	})
	return ranks
}

func topOf(ranks []analytics.EmployeeRank, n int) []analytics.EmployeeRank {
	if len(ranks) > n {
		ranks = ranks[:n]
	}
	top := make([]analytics.EmployeeRank, len(ranks))
	copy(top, ranks)
	return top
}

// punctualityExtremes picks the highest and lowest ranked employees.
// Employees with zero records never appear in the ranking, so absence
// is not rewarded as punctuality.
func punctualityExtremes(ranks []analytics.EmployeeRank) (most, least *analytics.EmployeeRank) {
	if len(ranks) == 0 {
		return nil, nil
	}

	first := ranks[0]
	most = &first

	last := ranks[len(ranks)-1]
	// Among equal minimum counts the earliest employee ID wins.
	for i := len(ranks) - 2; i >= 0; i-- {
		if ranks[i].PunchCount != last.PunchCount {
			break
		}
		last = ranks[i]
	}
	least = &last
	return most, least
}

// punchTotals counts punches on asOf's day and in asOf's month, plus
// the month's average per distinct employee with a record.
func punchTotals(records []attendance.Record, asOf time.Time) (today, thisMonth int, avg float64) {
	asOfDay := attendance.Day(asOf)
	monthEmployees := make(map[string]struct{})

	for _, record := range records {
		day := attendance.Day(record.Date)
		sameMonth := day.Year() == asOfDay.Year() && day.Month() == asOfDay.Month()

		if sameMonth {
			monthEmployees[record.EmployeeID] = struct{}{}
			thisMonth += len(record.Punches)
		}
		if day.Equal(asOfDay) {
			today += len(record.Punches)
		}
	}

	if len(monthEmployees) > 0 {
		avg = float64(thisMonth) / float64(len(monthEmployees))
	}
	return today, thisMonth, avg
}
