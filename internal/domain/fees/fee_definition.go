package fees

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// FeeFrequency represents how often a fee recurs
type FeeFrequency string

const (
	FrequencyOneTime FeeFrequency = "one_time"
	FrequencyTerm    FeeFrequency = "term"
	FrequencyYearly  FeeFrequency = "yearly"
	FrequencyMonthly FeeFrequency = "monthly"
)

// IsValid checks if the frequency is a valid FeeFrequency
func (f FeeFrequency) IsValid() bool {
	switch f {
	case FrequencyOneTime, FrequencyTerm, FrequencyYearly, FrequencyMonthly:
		return true
	}
	return false
}

// String returns the string representation of FeeFrequency
func (f FeeFrequency) String() string {
	return string(f)
}

// InstallmentCount returns the number of installments a frequency-derived
// split produces, or 0 if the frequency has no derived split.
func (f FeeFrequency) InstallmentCount() int {
	switch f {
	case FrequencyTerm, FrequencyYearly:
		return 3
	case FrequencyMonthly:
		return 10
	}
	return 0
}

// CustomInstallment is an authored installment breakdown entry on a fee
// definition. Amounts arrive as raw strings from the administration app and
// are parsed at planning time.
type CustomInstallment struct {
	Label   string  `json:"label"`
	Amount  string  `json:"amount"`
	DueDate *string `json:"due_date,omitempty"` // ISO date, optional
	Index   int     `json:"index"`
}

// ParseAmount parses the authored amount string into Money.
// A missing or non-numeric amount is a configuration error.
func (ci CustomInstallment) ParseAmount() (valueobject.Money, error) {
	m, err := valueobject.NewMoneyUGXFromString(ci.Amount)
	if err != nil {
		return valueobject.Money{}, shared.NewDomainError("INVALID_FEE_AMOUNT",
			fmt.Sprintf("installment %q has a malformed amount %q", ci.Label, ci.Amount))
	}
	return m, nil
}

// CustomInstallments is stored as a JSONB document on the fee definition
type CustomInstallments []CustomInstallment

// Value implements driver.Valuer interface for GORM to store as JSONB
func (c CustomInstallments) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (c *CustomInstallments) Scan(value interface{}) error {
	if value == nil {
		*c = CustomInstallments{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan CustomInstallments: unsupported type")
	}

	if len(bytes) == 0 {
		*c = CustomInstallments{}
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// FeeDefinition is a billable item template authored in the administration
// app. It is read-only to the billing engine and immutable once a schedule
// references it.
type FeeDefinition struct {
	shared.BaseEntity
	Name               string             `json:"name"`
	BaseAmount         string             `json:"base_amount"` // raw authored amount, parsed at planning time
	Frequency          FeeFrequency       `json:"frequency"`
	CustomInstallments CustomInstallments `json:"custom_installments"`
}

// ParseBaseAmount parses the authored base amount into Money.
// A missing or non-numeric amount is a configuration error, never a silent zero.
func (fd *FeeDefinition) ParseBaseAmount() (valueobject.Money, error) {
	m, err := valueobject.NewMoneyUGXFromString(fd.BaseAmount)
	if err != nil {
		return valueobject.Money{}, shared.NewDomainError("INVALID_FEE_AMOUNT",
			fmt.Sprintf("fee %q has a malformed base amount %q", fd.Name, fd.BaseAmount))
	}
	return m, nil
}

// HasCustomInstallments returns true if the definition carries an authored
// installment breakdown
func (fd *FeeDefinition) HasCustomInstallments() bool {
	return len(fd.CustomInstallments) > 0
}

// BaseAmountDecimal parses the base amount and returns the raw decimal.
// Convenience for callers that work below the Money abstraction.
func (fd *FeeDefinition) BaseAmountDecimal() (decimal.Decimal, error) {
	m, err := fd.ParseBaseAmount()
	if err != nil {
		return decimal.Zero, err
	}
	return m.Amount(), nil
}
