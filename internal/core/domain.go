package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

const (
	Single InvestmentType = "SINGLE"
	Team   InvestmentType = "TEAM"
)

const (
	Cash         PaymentMethod = "CASH"
	GPay         PaymentMethod = "GPAY"
	PhonePe      PaymentMethod = "PHONEPE"
	Paytm        PaymentMethod = "PAYTM"
	FamPay       PaymentMethod = "FAMPAY"
	DebitCard    PaymentMethod = "DEBIT_CARD"
	BankTransfer PaymentMethod = "BANK_TRANSFER"
)

// PaymentMethods lists every known channel in declaration order. Channel
// summaries emit their rows in this order so the same snapshot always
// produces the same statement figures.
var PaymentMethods = []PaymentMethod{
	Cash, GPay, PhonePe, Paytm, FamPay, DebitCard, BankTransfer,
}

type (
	TransactionType string
	InvestmentType  string
	PaymentMethod   string

	// Date is a calendar day. Time-of-day is never significant; the zero
	// value means the date is unknown (unparseable upstream records).
	Date struct {
		time.Time
	}

	// Transaction mirrors a record owned by the remote store. UserName is a
	// denormalized snapshot of the creator's name and may drift from the
	// directory; Investors are free-text names matched by exact equality.
	Transaction struct {
		ID             string          `json:"id"`
		UserID         string          `json:"userId"`
		UserName       string          `json:"userName"`
		Date           Date            `json:"date"`
		Type           TransactionType `json:"type"`
		Category       string          `json:"category"`
		Amount         float64         `json:"amount"`
		PaymentMethod  PaymentMethod   `json:"paymentMethod"`
		Description    string          `json:"description"`
		InvestmentType InvestmentType  `json:"investmentType,omitempty"`
		Investors      []string        `json:"investors,omitempty"`
		CreatedAt      time.Time       `json:"createdAt"`
	}

	// User is a record owned by the remote directory. Name is the join key
	// for spend attribution; uniqueness is not enforced anywhere.
	User struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Position  string    `json:"position"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

var (
	ErrInvalidType    = errors.New("invalid transaction type")
	ErrInvalidMethod  = errors.New("invalid payment method")
	ErrNegativeAmount = errors.New("negative amount")
	ErrEmptyCategory  = errors.New("empty category")
	ErrMissingDate    = errors.New("missing date")
	ErrEmptyName      = errors.New("empty name")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Known reports whether the date was supplied and parseable.
func (d Date) Known() bool {
	return !d.IsZero()
}

// SameDay reports whether d and t fall on the same calendar date.
func (d Date) SameDay(t time.Time) bool {
	if !d.Known() {
		return false
	}
	y1, m1, d1 := d.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SameMonth reports whether d falls in the same month and year as t.
func (d Date) SameMonth(t time.Time) bool {
	if !d.Known() {
		return false
	}
	return d.Year() == t.Year() && d.Month() == t.Month()
}

// SameYear reports whether d falls in the same year as t.
func (d Date) SameYear(t time.Time) bool {
	return d.Known() && d.Year() == t.Year()
}

// InMonth reports whether d falls in the given year and month.
func (d Date) InMonth(year int, month time.Month) bool {
	return d.Known() && d.Year() == year && d.Month() == month
}

// InYear reports whether d falls in the given year.
func (d Date) InYear(year int) bool {
	return d.Known() && d.Year() == year
}

// MarshalJSON encodes the date as YYYY-MM-DD, or null when unknown.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Known() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// UnmarshalJSON accepts YYYY-MM-DD and RFC 3339 timestamps. Anything else
// leaves the date unknown instead of failing the whole decode: a record
// with a bad date drops out of date-bucketed views, not out of the feed.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	d.Time = time.Time{}
	return nil
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// Validate checks the fields a new transaction must carry before it is
// handed to the remote store. Existing remote records are never validated;
// the aggregation functions degrade per record instead.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !t.PaymentMethod.Valid() {
		return ErrInvalidMethod
	}
	if t.Amount < 0 {
		return ErrNegativeAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if !t.Date.Known() {
		return ErrMissingDate
	}
	return nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
