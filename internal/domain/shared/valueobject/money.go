package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code.
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	GBP Currency = "GBP"
	PLN Currency = "PLN"
	CZK Currency = "CZK"
)

// Validate checks the code shape (three upper-case letters).
func (c Currency) Validate() error {
	if len(c) != 3 {
		return fmt.Errorf("currency code must be 3 letters, got %q", string(c))
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("currency code must be upper-case letters, got %q", string(c))
		}
	}
	return nil
}

// Money is an amount in a specific currency. Fields are exported so the
// value can be gorm-embedded into entities (columns amount, currency).
type Money struct {
	Amount   decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Currency Currency        `gorm:"column:currency;size:3;not null" json:"currency"`
}

// NewMoney creates a validated Money.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	m := Money{Amount: amount, Currency: currency}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// NewMoneyFromInt creates Money from minor units (cents).
func NewMoneyFromInt(amount int64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromInt(amount), currency)
}

// Validate checks the amount sign and the currency code.
func (m Money) Validate() error {
	if err := m.Currency.Validate(); err != nil {
		return err
	}
	if m.Amount.IsNegative() {
		return errors.New("amount cannot be negative")
	}
	return nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Equal reports amount and currency equality.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) String() string {
	return m.Amount.String() + " " + string(m.Currency)
}
