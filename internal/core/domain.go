package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category is the closed classification tag attached to an expense.
// Unknown values are kept verbatim on the record; display code falls back
// to a neutral color for them.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategoryUtilities     Category = "utilities"
	CategoryHealth        Category = "health"
	CategoryOther         Category = "other"
)

// Categories lists the closed set in its canonical order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryEntertainment,
	CategoryShopping,
	CategoryUtilities,
	CategoryHealth,
	CategoryOther,
}

// IsValid returns true if the category is a member of the closed set.
func (c Category) IsValid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryEntertainment,
		CategoryShopping, CategoryUtilities, CategoryHealth, CategoryOther:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidDate      = errors.New("invalid date")
)

// Date is a calendar date with no time component. It marshals to and from
// the ISO 8601 form used in the persisted layout (YYYY-MM-DD).
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO 8601 date string (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String returns the ISO form, e.g. "2024-01-05".
func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type (
	// Expense is a transaction decreasing the balance, tagged with a category.
	Expense struct {
		ID          string   `json:"id"`
		Description string   `json:"description"`
		Amount      Money    `json:"amount"`
		Category    Category `json:"category"`
		Date        Date     `json:"date"`
	}

	// Income is a transaction increasing the balance. No category.
	Income struct {
		ID          string `json:"id"`
		Description string `json:"description"`
		Amount      Money  `json:"amount"`
		Date        Date   `json:"date"`
	}
)

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	return nil
}

func (i Income) Validate() error {
	if len(strings.TrimSpace(i.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if err := i.Date.Validate(); err != nil {
		return err
	}
	return nil
}
