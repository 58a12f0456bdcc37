package validator

import (
	"taximport/internal/source"
)

// Result is the outcome of one rule applied to one row.
type Result struct {
	Passed        bool
	Row           int
	Field         string
	ExpectedValue string
	ActualValue   string
	Message       string
}

// Rule is the interface for a single built-in validation rule.
type Rule interface {
	Validate(row *source.Row) []Result
	RuleKey() string
	RuleName() string
}

// Registry holds the ordered set of rules applied to every row.
type Registry struct {
	rules []Rule
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a rule. Rules run in registration order.
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
}

// All returns the registered rules in order.
func (r *Registry) All() []Rule {
	return r.rules
}

// Default returns a Registry with the standard tax-record rules. Build a
// fresh one per run: the duplicate rule carries per-file state.
func Default() *Registry {
	r := NewRegistry()
	r.Register(RequiredFieldRule(source.ColJurisdictionID))
	r.Register(RequiredFieldRule(source.ColJurisdictionDesc))
	r.Register(NumericRateRule())
	r.Register(RateRangeRule(0, 100))
	r.Register(DuplicateIDRule())
	return r
}
