package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/enrollment"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
)

const (
	// FullPaymentDueDays is how long after generation a full payment is due
	FullPaymentDueDays = 15

	// monthlyDueDay is the day of month frequency-derived monthly
	// installments fall due on
	monthlyDueDay = 5
)

// termAnchors are the fixed due-date anchors for term/yearly splits, in
// installment order. They are never re-anchored to the next occurrence when
// an anchor has already passed.
var termAnchors = []struct {
	month time.Month
	day   int
}{
	{time.April, 15},
	{time.August, 15},
	{time.December, 15},
}

// ObligationDraft is an obligation computed by the planner but not yet
// persisted under a schedule
type ObligationDraft struct {
	FeeDefinitionID   uuid.UUID
	Description       string
	Amount            valueobject.Money
	NetAmount         valueobject.Money
	DueDate           time.Time
	InstallmentNumber *int
}

// InstallmentPlanner splits resolved fee definitions into obligation drafts
// according to the enrollment's payment preference. It is a pure domain
// service: same inputs, same drafts.
type InstallmentPlanner struct{}

// NewInstallmentPlanner creates a new InstallmentPlanner
func NewInstallmentPlanner() *InstallmentPlanner {
	return &InstallmentPlanner{}
}

// Plan produces obligation drafts for all definitions plus their summed
// amount. A malformed authored amount on any definition aborts the whole
// plan; every other input combination is total and never errors.
func (p *InstallmentPlanner) Plan(
	definitions []fees.FeeDefinition,
	preference enrollment.PaymentPreference,
	now time.Time,
) ([]ObligationDraft, valueobject.Money, error) {
	drafts := make([]ObligationDraft, 0, len(definitions))
	total := valueobject.ZeroUGX()

	for i := range definitions {
		feeDrafts, err := p.planFee(&definitions[i], preference, now)
		if err != nil {
			return nil, valueobject.Money{}, err
		}
		for _, d := range feeDrafts {
			total = total.MustAdd(d.Amount)
		}
		drafts = append(drafts, feeDrafts...)
	}

	return drafts, total, nil
}

// planFee selects the policy for one definition, in order: full payment,
// custom installments, frequency-derived split.
func (p *InstallmentPlanner) planFee(
	def *fees.FeeDefinition,
	preference enrollment.PaymentPreference,
	now time.Time,
) ([]ObligationDraft, error) {
	// One-time fees are always paid in full, whatever the preference.
	if preference == enrollment.PreferenceFull || def.Frequency == fees.FrequencyOneTime {
		return p.planFullPayment(def, now)
	}

	if def.HasCustomInstallments() {
		return p.planCustomInstallments(def, now)
	}

	if n := def.Frequency.InstallmentCount(); n > 0 {
		return p.planFrequencySplit(def, n, now)
	}

	// Unknown frequency with installments preference and no custom list:
	// the fee contributes nothing to the schedule.
	return nil, nil
}

func (p *InstallmentPlanner) planFullPayment(def *fees.FeeDefinition, now time.Time) ([]ObligationDraft, error) {
	amount, err := def.ParseBaseAmount()
	if err != nil {
		return nil, err
	}
	return []ObligationDraft{{
		FeeDefinitionID: def.ID,
		Description:     def.Name,
		Amount:          amount,
		NetAmount:       amount,
		DueDate:         now.AddDate(0, 0, FullPaymentDueDays),
	}}, nil
}

func (p *InstallmentPlanner) planCustomInstallments(def *fees.FeeDefinition, now time.Time) ([]ObligationDraft, error) {
	drafts := make([]ObligationDraft, 0, len(def.CustomInstallments))
	for _, ci := range def.CustomInstallments {
		amount, err := ci.ParseAmount()
		if err != nil {
			return nil, err
		}

		dueDate := p.customDueDate(ci, def.Frequency, now)
		index := ci.Index
		drafts = append(drafts, ObligationDraft{
			FeeDefinitionID:   def.ID,
			Description:       fmt.Sprintf("%s - %s", def.Name, ci.Label),
			Amount:            amount,
			NetAmount:         amount,
			DueDate:           dueDate,
			InstallmentNumber: &index,
		})
	}
	return drafts, nil
}

func (p *InstallmentPlanner) planFrequencySplit(def *fees.FeeDefinition, parts int, now time.Time) ([]ObligationDraft, error) {
	base, err := def.ParseBaseAmount()
	if err != nil {
		return nil, err
	}

	split, err := base.SplitCeil(parts)
	if err != nil {
		return nil, err
	}

	drafts := make([]ObligationDraft, 0, parts)
	for i, amount := range split {
		index := i + 1
		drafts = append(drafts, ObligationDraft{
			FeeDefinitionID:   def.ID,
			Description:       fmt.Sprintf("%s - Installment %d/%d", def.Name, index, parts),
			Amount:            amount,
			NetAmount:         amount,
			DueDate:           DueDateForInstallment(def.Frequency, index, now),
			InstallmentNumber: &index,
		})
	}
	return drafts, nil
}

// customDueDate resolves a custom installment's due date: the authored date
// when present and parseable, otherwise derived from the installment index.
func (p *InstallmentPlanner) customDueDate(ci fees.CustomInstallment, freq fees.FeeFrequency, now time.Time) time.Time {
	if ci.DueDate != nil {
		if d, err := time.Parse("2006-01-02", *ci.DueDate); err == nil {
			return d
		}
		if d, err := time.Parse(time.RFC3339, *ci.DueDate); err == nil {
			return d
		}
		// Malformed authored date falls back to the derived date; only
		// malformed amounts are fatal.
	}
	return DueDateForInstallment(freq, ci.Index, now)
}

// DueDateForInstallment returns the due date the frequency-derived policy
// assigns to a 1-based installment index. Term/yearly indexes look up the
// fixed calendar anchors of the current year, clamped to the last anchor
// when out of range; monthly indexes fall due on day 5 of the index-th
// month counted from now, rolling into the next year as date arithmetic
// dictates.
func DueDateForInstallment(freq fees.FeeFrequency, index int, now time.Time) time.Time {
	if index < 1 {
		index = 1
	}

	switch freq {
	case fees.FrequencyTerm, fees.FrequencyYearly:
		i := index - 1
		if i >= len(termAnchors) {
			i = len(termAnchors) - 1
		}
		anchor := termAnchors[i]
		return time.Date(now.Year(), anchor.month, anchor.day, 0, 0, 0, 0, now.Location())
	default:
		return time.Date(now.Year(), now.Month()+time.Month(index-1), monthlyDueDay, 0, 0, 0, 0, now.Location())
	}
}
