package tax

import (
	"fmt"
	"time"

	"gpc_underwriting/pkg/core/assumption"
)

// Statutory 1031 exchange windows, in calendar days from the sale
// closing date.
const (
	IdentificationWindowDays = 45
	ClosingWindowDays        = 180
)

// ExchangeDeadlines holds the two statutory 1031 dates.
type ExchangeDeadlines struct {
	SaleClosingDate        string `json:"sale_closing_date"`
	IdentificationDeadline string `json:"identification_deadline"`
	ClosingDeadline        string `json:"closing_deadline"`
}

// ExchangeDeadlinesFrom computes the 45-day identification deadline and
// the 180-day closing deadline from a sale closing date. Both are plain
// calendar-day offsets; the statute does not roll weekends or holidays.
func ExchangeDeadlinesFrom(saleClosingDate string) (*ExchangeDeadlines, error) {
	closed, err := time.Parse(assumption.DateLayout, saleClosingDate)
	if err != nil {
		return nil, fmt.Errorf("invalid sale closing date %q: %w", saleClosingDate, err)
	}
	return &ExchangeDeadlines{
		SaleClosingDate:        saleClosingDate,
		IdentificationDeadline: closed.AddDate(0, 0, IdentificationWindowDays).Format(assumption.DateLayout),
		ClosingDeadline:        closed.AddDate(0, 0, ClosingWindowDays).Format(assumption.DateLayout),
	}, nil
}
