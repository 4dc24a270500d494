package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/repository"
)

// ReportingStore runs the read-side aggregates.  Ranges are [from, to).
type ReportingStore interface {
	Revenue(ctx context.Context, companyID, locationID string, from, to time.Time) (float64, error)
	LowStockCount(ctx context.Context, companyID, locationID string) (int, error)
	ActiveTicketCount(ctx context.Context, companyID, locationID string) (int, error)
	CustomerCount(ctx context.Context, companyID string) (int, error)
	RevenueSeries(ctx context.Context, companyID, locationID string, from, to time.Time, b repository.Bucket) ([]model.RevenuePoint, error)
}

// ReportingService recomputes every figure from the store on each call.
type ReportingService struct {
	base
	store ReportingStore
}

// NewReportingService returns a ReportingService over store.
func NewReportingService(store ReportingStore, log *zap.Logger) *ReportingService {
	return &ReportingService{base: newBase(log, nil), store: store}
}

const dateLayout = "2006-01-02"

// parseDate accepts YYYY-MM-DD or RFC 3339 and truncates to the UTC day.
func parseDate(field, v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		t, err = time.Parse(time.RFC3339, v)
	}
	if err != nil {
		return time.Time{}, apperr.Validation("Invalid date", map[string]string{field: "must be YYYY-MM-DD"})
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// dateRange turns inclusive calendar dates into a half-open range.
func dateRange(start, end string) (time.Time, time.Time, error) {
	from, err := parseDate("startDate", start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	last, err := parseDate("endDate", end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if last.Before(from) {
		return time.Time{}, time.Time{}, apperr.Validation("endDate must not be before startDate",
			map[string]string{"endDate": "must be on or after startDate"})
	}
	return from, last.AddDate(0, 0, 1), nil
}

func monthOf(now time.Time) (time.Time, time.Time) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, 0)
}

// DashboardStats summarises the company, or one location of it.  Revenue
// covers the given dates; a missing startDate falls back to the first day
// of the current month and a missing endDate to its last day.  The customer
// count is company wide.
func (s *ReportingService) DashboardStats(ctx context.Context, companyID string, q DashboardQuery) (model.DashboardStats, error) {
	from, to, err := s.dashboardRange(q.StartDate, q.EndDate)
	if err != nil {
		return model.DashboardStats{}, err
	}

	var st model.DashboardStats
	if st.MonthlyRevenue, err = s.store.Revenue(ctx, companyID, q.LocationID, from, to); err != nil {
		return model.DashboardStats{}, err
	}
	if st.LowStockCount, err = s.store.LowStockCount(ctx, companyID, q.LocationID); err != nil {
		return model.DashboardStats{}, err
	}
	if st.ActiveTickets, err = s.store.ActiveTicketCount(ctx, companyID, q.LocationID); err != nil {
		return model.DashboardStats{}, err
	}
	if st.TotalCustomers, err = s.store.CustomerCount(ctx, companyID); err != nil {
		return model.DashboardStats{}, err
	}
	return st, nil
}

// dashboardRange resolves each bound on its own against the current month.
func (s *ReportingService) dashboardRange(start, end string) (time.Time, time.Time, error) {
	from, to := monthOf(s.now())
	if start != "" {
		t, err := parseDate("startDate", start)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if end != "" {
		t, err := parseDate("endDate", end)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, apperr.Validation("endDate must not be before startDate",
			map[string]string{"endDate": "must be on or after startDate"})
	}
	return from, to, nil
}

// RevenueOverTime buckets paid revenue by day, week (Monday start) or
// month, ascending.
func (s *ReportingService) RevenueOverTime(ctx context.Context, companyID string, q RevenueQuery) ([]model.RevenuePoint, error) {
	if q.StartDate == "" || q.EndDate == "" {
		fields := map[string]string{}
		if q.StartDate == "" {
			fields["startDate"] = "required"
		}
		if q.EndDate == "" {
			fields["endDate"] = "required"
		}
		return nil, apperr.Validation("startDate and endDate are required", fields)
	}
	bucket := repository.BucketDay
	if q.GroupBy != "" {
		bucket = repository.Bucket(q.GroupBy)
	}
	if !bucket.Valid() {
		return nil, apperr.Validation("Invalid groupBy", map[string]string{"groupBy": "must be day, week or month"})
	}
	from, to, err := dateRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	return s.store.RevenueSeries(ctx, companyID, q.LocationID, from, to, bucket)
}
