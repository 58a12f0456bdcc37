package validator

import (
	"fmt"
	"strconv"
	"strings"

	"taximport/internal/source"
)

// requiredFieldRule checks that a required column is non-empty on each row.
type requiredFieldRule struct {
	ruleKey  string
	ruleName string
	field    string
}

// RequiredFieldRule returns a rule requiring a non-empty value in field.
func RequiredFieldRule(field string) Rule {
	return &requiredFieldRule{
		ruleKey:  "required." + field,
		ruleName: "Required: " + field,
		field:    field,
	}
}

func (v *requiredFieldRule) RuleKey() string  { return v.ruleKey }
func (v *requiredFieldRule) RuleName() string { return v.ruleName }

func (v *requiredFieldRule) Validate(row *source.Row) []Result {
	val := row.Get(v.field)
	return []Result{{
		Passed:        val != "",
		Row:           row.Num,
		Field:         v.field,
		ExpectedValue: "non-empty value",
		ActualValue:   val,
		Message:       fieldMessage(val != "", v.ruleName, v.field),
	}}
}

func fieldMessage(passed bool, ruleName, field string) string {
	if passed {
		return fmt.Sprintf("%s: %s is present", ruleName, field)
	}
	return fmt.Sprintf("%s: %s is missing or empty", ruleName, field)
}

// numericRateRule checks that tax_percentage parses as a decimal.
type numericRateRule struct{}

// NumericRateRule returns a rule requiring a parseable tax_percentage.
func NumericRateRule() Rule { return &numericRateRule{} }

func (v *numericRateRule) RuleKey() string  { return "format.tax_percentage" }
func (v *numericRateRule) RuleName() string { return "Format: numeric tax_percentage" }

func (v *numericRateRule) Validate(row *source.Row) []Result {
	val := row.Get(source.ColTaxPercentage)
	if val == "" {
		return []Result{{
			Passed:        false,
			Row:           row.Num,
			Field:         source.ColTaxPercentage,
			ExpectedValue: "decimal number",
			ActualValue:   val,
			Message:       fmt.Sprintf("%s: tax_percentage is missing or empty", v.RuleName()),
		}}
	}

	_, err := ParseRate(val)
	return []Result{{
		Passed:        err == nil,
		Row:           row.Num,
		Field:         source.ColTaxPercentage,
		ExpectedValue: "decimal number",
		ActualValue:   val,
		Message:       rateMessage(err == nil, v.RuleName(), val),
	}}
}

func rateMessage(passed bool, ruleName, val string) string {
	if passed {
		return fmt.Sprintf("%s: %q is a valid decimal", ruleName, val)
	}
	return fmt.Sprintf("%s: %q is not a number", ruleName, val)
}

// rateRangeRule checks that a parseable tax_percentage falls within [min, max].
// Unparseable values are left to the format rule.
type rateRangeRule struct {
	min, max float64
}

// RateRangeRule returns a rule bounding tax_percentage to [min, max].
func RateRangeRule(min, max float64) Rule {
	return &rateRangeRule{min: min, max: max}
}

func (v *rateRangeRule) RuleKey() string  { return "range.tax_percentage" }
func (v *rateRangeRule) RuleName() string { return "Range: tax_percentage" }

func (v *rateRangeRule) Validate(row *source.Row) []Result {
	val := row.Get(source.ColTaxPercentage)
	rate, err := ParseRate(val)
	if err != nil {
		return nil
	}

	passed := rate >= v.min && rate <= v.max
	msg := fmt.Sprintf("%s: %v is within [%v, %v]", v.RuleName(), rate, v.min, v.max)
	if !passed {
		msg = fmt.Sprintf("%s: %v is outside [%v, %v]", v.RuleName(), rate, v.min, v.max)
	}
	return []Result{{
		Passed:        passed,
		Row:           row.Num,
		Field:         source.ColTaxPercentage,
		ExpectedValue: fmt.Sprintf("value in [%v, %v]", v.min, v.max),
		ActualValue:   val,
		Message:       msg,
	}}
}

// duplicateIDRule flags jurisdiction_ids already seen earlier in the file.
// The first occurrence passes; later ones fail.
type duplicateIDRule struct {
	seen map[string]int // jurisdiction_id → first row seen
}

// DuplicateIDRule returns a rule enforcing jurisdiction_id uniqueness within
// one file. The rule is stateful; use a fresh instance per run.
func DuplicateIDRule() Rule {
	return &duplicateIDRule{seen: make(map[string]int)}
}

func (v *duplicateIDRule) RuleKey() string  { return "unique.jurisdiction_id" }
func (v *duplicateIDRule) RuleName() string { return "Unique: jurisdiction_id" }

func (v *duplicateIDRule) Validate(row *source.Row) []Result {
	id := row.Get(source.ColJurisdictionID)
	if id == "" {
		// Emptiness is the required rule's problem.
		return nil
	}

	if first, dup := v.seen[id]; dup {
		return []Result{{
			Passed:        false,
			Row:           row.Num,
			Field:         source.ColJurisdictionID,
			ExpectedValue: "unique jurisdiction_id",
			ActualValue:   id,
			Message:       fmt.Sprintf("%s: %q already used on row %d", v.RuleName(), id, first),
		}}
	}

	v.seen[id] = row.Num
	return []Result{{
		Passed:        true,
		Row:           row.Num,
		Field:         source.ColJurisdictionID,
		ExpectedValue: "unique jurisdiction_id",
		ActualValue:   id,
		Message:       fmt.Sprintf("%s: %q not seen before", v.RuleName(), id),
	}}
}

// ParseRate parses a tax percentage, tolerating a trailing "%" the way
// spreadsheet exports format rates.
func ParseRate(val string) (float64, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "%"))
	return strconv.ParseFloat(s, 64)
}
