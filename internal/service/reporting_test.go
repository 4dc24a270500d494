package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/repository"
)

type stubReporting struct {
	revenue    float64
	from, to   time.Time
	locations  []string
	bucket     repository.Bucket
	customerID string
}

func (s *stubReporting) Revenue(ctx context.Context, companyID, locationID string, from, to time.Time) (float64, error) {
	s.from, s.to = from, to
	s.locations = append(s.locations, locationID)
	return s.revenue, nil
}

func (s *stubReporting) LowStockCount(ctx context.Context, companyID, locationID string) (int, error) {
	s.locations = append(s.locations, locationID)
	return 3, nil
}

func (s *stubReporting) ActiveTicketCount(ctx context.Context, companyID, locationID string) (int, error) {
	s.locations = append(s.locations, locationID)
	return 7, nil
}

func (s *stubReporting) CustomerCount(ctx context.Context, companyID string) (int, error) {
	s.customerID = companyID
	return 42, nil
}

func (s *stubReporting) RevenueSeries(ctx context.Context, companyID, locationID string, from, to time.Time, b repository.Bucket) ([]model.RevenuePoint, error) {
	s.from, s.to, s.bucket = from, to, b
	return []model.RevenuePoint{{Date: from.Format(dateLayout), Revenue: 10}}, nil
}

func TestDashboardWithNoPaidInvoicesReportsZero(t *testing.T) {
	store := &stubReporting{}
	svc := NewReportingService(store, nil)
	svc.now = func() time.Time { return time.Date(2024, 2, 17, 9, 30, 0, 0, time.UTC) }

	st, err := svc.DashboardStats(context.Background(), companyA, DashboardQuery{LocationID: "loc-1"})
	require.NoError(t, err)
	require.Zero(t, st.MonthlyRevenue)
	require.Equal(t, 3, st.LowStockCount)
	require.Equal(t, 7, st.ActiveTickets)
	require.Equal(t, 42, st.TotalCustomers)

	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), store.from)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), store.to)
	require.Equal(t, []string{"loc-1", "loc-1", "loc-1"}, store.locations)
	require.Equal(t, companyA, store.customerID)
}

func TestDashboardExplicitRangeIsInclusive(t *testing.T) {
	store := &stubReporting{revenue: 1250.5}
	svc := NewReportingService(store, nil)

	st, err := svc.DashboardStats(context.Background(), companyA, DashboardQuery{StartDate: "2024-01-10", EndDate: "2024-01-20"})
	require.NoError(t, err)
	require.InDelta(t, 1250.5, st.MonthlyRevenue, 0.001)
	require.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), store.from)
	require.Equal(t, time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC), store.to)
}

func TestDashboardDefaultsEachBoundOnItsOwn(t *testing.T) {
	store := &stubReporting{}
	svc := NewReportingService(store, nil)
	svc.now = func() time.Time { return time.Date(2024, 2, 17, 9, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	// Only a start: the range runs to the end of the current month.
	_, err := svc.DashboardStats(ctx, companyA, DashboardQuery{StartDate: "2024-01-10"})
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), store.from)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), store.to)

	// Only an end: the range starts on the first of the current month.
	_, err = svc.DashboardStats(ctx, companyA, DashboardQuery{EndDate: "2024-02-10"})
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), store.from)
	require.Equal(t, time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC), store.to)
}

func TestDashboardRejectsInvertedRange(t *testing.T) {
	svc := NewReportingService(&stubReporting{}, nil)
	svc.now = func() time.Time { return time.Date(2024, 2, 17, 9, 30, 0, 0, time.UTC) }

	// A start after the current month with no end leaves nothing to cover.
	_, err := svc.DashboardStats(context.Background(), companyA, DashboardQuery{StartDate: "2024-04-01"})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.DashboardStats(context.Background(), companyA, DashboardQuery{EndDate: "2024-01-15"})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.DashboardStats(context.Background(), companyA, DashboardQuery{StartDate: "yesterday"})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRevenueOverTimeValidation(t *testing.T) {
	svc := NewReportingService(&stubReporting{}, nil)
	ctx := context.Background()
	cases := []RevenueQuery{
		{EndDate: "2024-01-31"},
		{StartDate: "2024-01-01"},
		{StartDate: "2024-01-01", EndDate: "2024-01-31", GroupBy: "year"},
		{StartDate: "01/01/2024", EndDate: "2024-01-31"},
		{StartDate: "2024-02-01", EndDate: "2024-01-31"},
	}
	for _, q := range cases {
		_, err := svc.RevenueOverTime(ctx, companyA, q)
		require.ErrorIs(t, err, apperr.ErrValidation, "%+v", q)
		require.Equal(t, 400, apperr.Status(err))
	}
}

func TestRevenueOverTimeDefaultsToDay(t *testing.T) {
	store := &stubReporting{}
	svc := NewReportingService(store, nil)

	points, err := svc.RevenueOverTime(context.Background(), companyA, RevenueQuery{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)
	require.Equal(t, repository.BucketDay, store.bucket)
	require.Equal(t, "2024-01-01", points[0].Date)
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), store.to)

	_, err = svc.RevenueOverTime(context.Background(), companyA, RevenueQuery{StartDate: "2024-01-01", EndDate: "2024-03-31", GroupBy: "week"})
	require.NoError(t, err)
	require.Equal(t, repository.BucketWeek, store.bucket)
}
