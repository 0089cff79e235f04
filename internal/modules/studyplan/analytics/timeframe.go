package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Timeframe string

const (
	OneMonth         Timeframe = "1month"
	SixMonths        Timeframe = "6months"
	OneYear          Timeframe = "1year"
	DefaultTimeframe           = OneMonth
)

var ErrInvalidTimeframe = errors.New("invalid timeframe")

// ParseTimeframe accepts "1month", "6months" or "1year". Empty input yields DefaultTimeframe.
func ParseTimeframe(raw string) (Timeframe, error) {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(raw))); tf {
	case "":
		return DefaultTimeframe, nil
	case OneMonth, SixMonths, OneYear:
		return tf, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeframe, raw)
	}
}

// Since returns the start of the lookback window ending at now.
func (tf Timeframe) Since(now time.Time) time.Time {
	switch tf {
	case SixMonths:
		return now.AddDate(0, -6, 0)
	case OneYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// bucketKey maps a local calendar date onto the bucket it belongs to for this timeframe.
// Keys sort lexically in chronological order.
func (tf Timeframe) bucketKey(local time.Time) string {
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	switch tf {
	case SixMonths:
		return day.AddDate(0, 0, -int(day.Weekday())).Format("2006-01-02")
	case OneYear:
		return day.Format("2006-01")
	default:
		return day.Format("2006-01-02")
	}
}
