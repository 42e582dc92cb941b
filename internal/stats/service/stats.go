// Package service derives revenue reports from the booking ledger. Reports
// are computed on every request so the numbers never lag the store.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	bookingsrepo "nomadhub/internal/bookings/repository"
	roomsrepo "nomadhub/internal/rooms/repository"
	userserrors "nomadhub/internal/users/errors"
	usersrepo "nomadhub/internal/users/repository"
	"nomadhub/pkg/config"
	apperrors "nomadhub/pkg/errors"
	"nomadhub/pkg/model"

	"github.com/shopspring/decimal"
)

type StatsService interface {
	AdminOverview(ctx context.Context) (*model.RevenueReport, error)
	HostOverview(ctx context.Context, hostEmail string) (*model.RevenueReport, error)
}

type statsService struct {
	bookings bookingsrepo.BookingRepository
	rooms    roomsrepo.RoomRepository
	users    usersrepo.UserRepository
	cfg      *config.Config
}

func NewStatsService(
	bookings bookingsrepo.BookingRepository,
	rooms roomsrepo.RoomRepository,
	users usersrepo.UserRepository,
	cfg *config.Config,
) StatsService {
	return &statsService{bookings: bookings, rooms: rooms, users: users, cfg: cfg}
}

func (s *statsService) AdminOverview(ctx context.Context) (*model.RevenueReport, error) {
	var totalRooms, totalUsers int64
	var errRooms, errUsers error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		totalRooms, errRooms = s.rooms.Count(ctx)
	}()
	go func() {
		defer wg.Done()
		totalUsers, errUsers = s.users.Count(ctx)
	}()

	all, err := s.bookings.FindAll(ctx, 0, 0)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for revenue report", "error", err)
		return nil, apperrors.StoreUnavailable(err)
	}

	wg.Wait()
	if errRooms != nil {
		s.cfg.Log.Error("Failed to count rooms for revenue report", "error", errRooms)
		return nil, apperrors.StoreUnavailable(errRooms)
	}
	if errUsers != nil {
		s.cfg.Log.Error("Failed to count users for revenue report", "error", errUsers)
		return nil, apperrors.StoreUnavailable(errUsers)
	}

	total, chart := s.fold(all)
	return &model.RevenueReport{
		TotalBookings: int64(len(all)),
		TotalRooms:    totalRooms,
		TotalUsers:    totalUsers,
		TotalSales:    total,
		ChartData:     chart,
	}, nil
}

func (s *statsService) HostOverview(ctx context.Context, hostEmail string) (*model.RevenueReport, error) {
	var totalRooms int64
	var host *model.User
	var errRooms, errHost error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		totalRooms, errRooms = s.rooms.CountByHost(ctx, hostEmail)
	}()
	go func() {
		defer wg.Done()
		host, errHost = s.users.FindByEmail(ctx, hostEmail)
	}()

	bookings, err := s.bookings.FindByHost(ctx, hostEmail)
	if err != nil {
		s.cfg.Log.Error("Failed to load host bookings for revenue report", "host", hostEmail, "error", err)
		return nil, apperrors.StoreUnavailable(err)
	}

	wg.Wait()
	if errRooms != nil {
		s.cfg.Log.Error("Failed to count host rooms for revenue report", "host", hostEmail, "error", errRooms)
		return nil, apperrors.StoreUnavailable(errRooms)
	}

	report := &model.RevenueReport{
		TotalBookings: int64(len(bookings)),
		TotalRooms:    totalRooms,
	}
	report.TotalSales, report.ChartData = s.fold(bookings)

	switch {
	case errHost == nil:
		since := host.Timestamp
		report.HostSince = &since
	case errors.Is(errHost, userserrors.ErrNotFound):
		// Host has never logged in through this surface; omit hostSince.
	default:
		s.cfg.Log.Error("Failed to load host record for revenue report", "host", hostEmail, "error", errHost)
		return nil, apperrors.StoreUnavailable(errHost)
	}

	return report, nil
}

// fold turns bookings into the running total and the chart series in fetch
// order. A price that does not parse counts as zero; losing a data point
// beats failing the whole report.
func (s *statsService) fold(bookings []*model.Booking) (decimal.Decimal, []model.ChartRow) {
	total := decimal.Zero
	chart := make([]model.ChartRow, 0, len(bookings)+1)
	chart = append(chart, model.ChartHeader)

	for _, b := range bookings {
		price, err := decimal.NewFromString(b.Price)
		if err != nil {
			s.cfg.Log.Warn("Booking has a non-numeric price, counting as zero",
				"booking_id", b.ID, "price", b.Price)
			price = decimal.Zero
		}
		total = total.Add(price)

		label := fmt.Sprintf("%d/%d", b.Date.Day(), int(b.Date.Month()))
		chart = append(chart, model.ChartRow{label, price.InexactFloat64()})
	}

	return total, chart
}
