package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChartRow is one (label, amount) pair of the revenue series. Serialized as a
// two-element array so the payload is chart-ready as-is.
type ChartRow [2]any

// ChartHeader is prepended to every revenue series.
var ChartHeader = ChartRow{"Day", "Price"}

// RevenueReport is derived from the booking ledger on every request and never
// cached; a report is always consistent with the store at read time.
type RevenueReport struct {
	TotalBookings int64           `json:"total_bookings"`
	TotalRooms    int64           `json:"total_rooms"`
	TotalUsers    int64           `json:"total_users,omitempty"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	HostSince     *time.Time      `json:"host_since,omitempty"`
	ChartData     []ChartRow      `json:"chart_data"`
}
