package store

import (
	"fmt"
	"strings"
	"time"

	"pal-budget/internal/infer"
)

// DefaultUserID is the single fixed principal the service currently runs
// with. Real authentication is out of scope.
const DefaultUserID int64 = 1

// TransactionSource records how a transaction entered the system.
type TransactionSource string

const (
	SourceManual TransactionSource = "manual"
	SourceVoice  TransactionSource = "voice"
	SourcePhoto  TransactionSource = "photo"
	SourceAI     TransactionSource = "ai"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component, serialized as
// "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Transaction is one persisted bookkeeping record, always owned by a user.
type Transaction struct {
	ID          int64                 `json:"id"`
	UserID      int64                 `json:"user_id"`
	Type        infer.TransactionType `json:"type"`
	Amount      float64               `json:"amount"`
	Category    string                `json:"category"`
	Description string                `json:"description,omitempty"`
	Date        Date                  `json:"date"`
	Source      TransactionSource     `json:"source"`
	CreatedAt   time.Time             `json:"created_at"`
}

// TransactionPatch carries a partial update; nil fields are left untouched.
type TransactionPatch struct {
	Type        *infer.TransactionType `json:"type"`
	Amount      *float64               `json:"amount"`
	Category    *string                `json:"category"`
	Description *string                `json:"description"`
	Date        *Date                  `json:"date"`
}

// TransactionFilter narrows a listing. Zero values mean "no constraint";
// Limit <= 0 returns everything after Skip.
type TransactionFilter struct {
	Type      infer.TransactionType
	StartDate *Date
	EndDate   *Date
	Skip      int
	Limit     int
}

// User is an account record.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Nickname  string    `json:"nickname"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
