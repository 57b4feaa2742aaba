// README: Payroll service — admin earnings listing, CSV export, driver daily stats.
package payroll

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"vdeliveries/internal/types"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) DriverTotals(ctx context.Context) ([]DriverStat, error) {
	return s.store.DriverTotals(ctx)
}

// ExportCSV renders the payroll table in the same column order the admin
// dashboard download produces.
func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	stats, err := s.store.DriverTotals(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Driver ID", "Full Name", "Total Earned (ZMW)", "Deliveries", "Pending Payout (ZMW)"})
	for _, st := range stats {
		_ = w.Write([]string{
			string(st.DriverID),
			st.FullName,
			strconv.FormatInt(st.TotalEarned, 10),
			strconv.FormatInt(st.Deliveries, 10),
			strconv.FormatInt(st.PendingPayout, 10),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DriverToday returns the driver's delivered totals since local midnight UTC.
func (s *Service) DriverToday(ctx context.Context, driverID types.ID) (DailyStat, error) {
	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.store.DriverEarningsSince(ctx, driverID, midnight)
}
