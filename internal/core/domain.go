package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the transaction schema.
const (
	ColDateTime = "datetime"
	ColDate     = "date"
	ColAmount   = "amount"
	ColType     = "type"
	ColCategory = "category"
	ColMerchant = "merchant"
	ColMonth    = "month"
)

// RequiredColumns lists the columns every input source must provide.
var RequiredColumns = []string{ColDateTime, ColDate, ColAmount, ColType, ColCategory, ColMerchant}

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

type (
	Date struct {
		time.Time
	}

	Transaction struct {
		DateTime time.Time
		Date     Date
		Amount   decimal.Decimal
		Type     string
		Category string
		Merchant string
		Month    string // YYYY-MM bucket of DateTime
	}
)

var (
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeAmount   = errors.New("negative amount")
)

// timestampLayouts are tried in order; the first that parses wins.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	dateLayout,
}

// ParseTimestamp parses an ISO-like timestamp. Values without an offset are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidTimestamp
}

// ParseAmount parses a non-negative decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t as seen in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// MonthOf returns the YYYY-MM bucket of t.
func MonthOf(t time.Time) string {
	return t.Format(monthLayout)
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// NewTransaction builds a row and derives Month from dateTime.
func NewTransaction(dateTime, date time.Time, amount decimal.Decimal, typ, category, merchant string) Transaction {
	return Transaction{
		DateTime: dateTime,
		Date:     DateOf(date),
		Amount:   amount,
		Type:     typ,
		Category: category,
		Merchant: merchant,
		Month:    MonthOf(dateTime),
	}
}
