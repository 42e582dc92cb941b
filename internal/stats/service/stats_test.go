package service

import (
	"context"
	"testing"
	"time"

	userserrors "nomadhub/internal/users/errors"
	"nomadhub/pkg/config"
	mongotx "nomadhub/pkg/db/mongo"
	"nomadhub/pkg/logger"
	"nomadhub/pkg/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBookingRepo struct {
	all    []*model.Booking
	byHost []*model.Booking
}

func (s *stubBookingRepo) Create(ctx context.Context, b *model.Booking) error { return nil }
func (s *stubBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, nil
}
func (s *stubBookingRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return s.all, nil
}
func (s *stubBookingRepo) FindByGuest(ctx context.Context, email string) ([]*model.Booking, error) {
	return nil, nil
}
func (s *stubBookingRepo) FindByHost(ctx context.Context, email string) ([]*model.Booking, error) {
	return s.byHost, nil
}
func (s *stubBookingRepo) Delete(ctx context.Context, id string) error { return nil }
func (s *stubBookingRepo) Count(ctx context.Context) (int64, error)    { return int64(len(s.all)), nil }
func (s *stubBookingRepo) CountByHost(ctx context.Context, email string) (int64, error) {
	return int64(len(s.byHost)), nil
}
func (s *stubBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type stubRoomRepo struct {
	total  int64
	byHost int64
}

func (s *stubRoomRepo) Create(ctx context.Context, r *model.Room) error { return nil }
func (s *stubRoomRepo) FindByID(ctx context.Context, id string) (*model.Room, error) {
	return nil, nil
}
func (s *stubRoomRepo) FindAll(ctx context.Context, category string, limit int, offset int64) ([]*model.Room, error) {
	return nil, nil
}
func (s *stubRoomRepo) FindByHost(ctx context.Context, email string) ([]*model.Room, error) {
	return nil, nil
}
func (s *stubRoomRepo) Delete(ctx context.Context, id string) error { return nil }
func (s *stubRoomRepo) Count(ctx context.Context) (int64, error)    { return s.total, nil }
func (s *stubRoomRepo) CountByCategory(ctx context.Context, category string) (int64, error) {
	return 0, nil
}
func (s *stubRoomRepo) CountByHost(ctx context.Context, email string) (int64, error) {
	return s.byHost, nil
}
func (s *stubRoomRepo) UpdateStatus(ctx context.Context, id string, expected, next model.RoomStatus) error {
	return nil
}
func (s *stubRoomRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type stubUserRepo struct {
	total int64
	host  *model.User
}

func (s *stubUserRepo) Upsert(ctx context.Context, u *model.User) (*model.User, error) {
	return u, nil
}
func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.host == nil {
		return nil, userserrors.ErrNotFound
	}
	return s.host, nil
}
func (s *stubUserRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return nil, nil
}
func (s *stubUserRepo) UpdateRole(ctx context.Context, email, role, status string) error {
	return nil
}
func (s *stubUserRepo) Count(ctx context.Context) (int64, error) { return s.total, nil }

func booking(price string, day, month int) *model.Booking {
	return &model.Booking{
		ID:    "b-" + price,
		Price: price,
		Date:  time.Date(2026, time.Month(month), day, 12, 0, 0, 0, time.UTC),
	}
}

func newService(bookings *stubBookingRepo, rooms *stubRoomRepo, users *stubUserRepo) StatsService {
	cfg := &config.Config{Log: logger.Discard()}
	return NewStatsService(bookings, rooms, users, cfg)
}

func TestAdminOverview(t *testing.T) {
	bookings := &stubBookingRepo{all: []*model.Booking{
		booking("25.00", 3, 6),
		booking("40.50", 3, 6),
		booking("10.00", 4, 6),
	}}
	svc := newService(bookings, &stubRoomRepo{total: 12}, &stubUserRepo{total: 7})

	report, err := svc.AdminOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), report.TotalBookings)
	assert.Equal(t, int64(12), report.TotalRooms)
	assert.Equal(t, int64(7), report.TotalUsers)
	assert.True(t, report.TotalSales.Equal(decimal.RequireFromString("75.50")),
		"expected total 75.50, got %s", report.TotalSales)

	require.Len(t, report.ChartData, 4)
	assert.Equal(t, model.ChartRow{"Day", "Price"}, report.ChartData[0])
	assert.Equal(t, model.ChartRow{"3/6", 25.0}, report.ChartData[1])
	assert.Equal(t, model.ChartRow{"3/6", 40.5}, report.ChartData[2])
	assert.Equal(t, model.ChartRow{"4/6", 10.0}, report.ChartData[3])
}

func TestAdminOverviewEmptyLedger(t *testing.T) {
	svc := newService(&stubBookingRepo{}, &stubRoomRepo{}, &stubUserRepo{})

	report, err := svc.AdminOverview(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.TotalBookings)
	assert.True(t, report.TotalSales.IsZero())
	require.Len(t, report.ChartData, 1, "empty ledger still carries the header row")
	assert.Equal(t, model.ChartHeader, report.ChartData[0])
}

func TestAdminOverviewMalformedPrice(t *testing.T) {
	bookings := &stubBookingRepo{all: []*model.Booking{
		booking("25.00", 1, 2),
		booking("not-a-number", 1, 2),
	}}
	svc := newService(bookings, &stubRoomRepo{}, &stubUserRepo{})

	report, err := svc.AdminOverview(context.Background())
	require.NoError(t, err)

	assert.True(t, report.TotalSales.Equal(decimal.RequireFromString("25.00")),
		"malformed price folds to zero, got %s", report.TotalSales)
	assert.Equal(t, model.ChartRow{"1/2", 0.0}, report.ChartData[2])
}

func TestHostOverview(t *testing.T) {
	since := time.Date(2025, 11, 20, 8, 0, 0, 0, time.UTC)
	bookings := &stubBookingRepo{byHost: []*model.Booking{
		booking("120.00", 15, 1),
	}}
	users := &stubUserRepo{host: &model.User{Email: "host@example.com", Timestamp: since}}
	svc := newService(bookings, &stubRoomRepo{byHost: 4}, users)

	report, err := svc.HostOverview(context.Background(), "host@example.com")
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.TotalBookings)
	assert.Equal(t, int64(4), report.TotalRooms)
	assert.Zero(t, report.TotalUsers, "host scope has no user count")
	require.NotNil(t, report.HostSince)
	assert.Equal(t, since, *report.HostSince)
	assert.True(t, report.TotalSales.Equal(decimal.RequireFromString("120.00")))
	assert.Equal(t, model.ChartRow{"15/1", 120.0}, report.ChartData[1])
}

func TestHostOverviewUnknownHost(t *testing.T) {
	svc := newService(&stubBookingRepo{}, &stubRoomRepo{}, &stubUserRepo{})

	report, err := svc.HostOverview(context.Background(), "new-host@example.com")
	require.NoError(t, err)
	assert.Nil(t, report.HostSince)
}
