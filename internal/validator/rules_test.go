package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taximport/internal/source"
)

func row(num int, id, desc, rate string) source.Row {
	return source.Row{Num: num, Fields: map[string]string{
		source.ColJurisdictionID:   id,
		source.ColJurisdictionDesc: desc,
		source.ColTaxPercentage:    rate,
	}}
}

func TestRequiredFieldRule(t *testing.T) {
	rule := RequiredFieldRule(source.ColJurisdictionDesc)

	r := row(1, "TX001", "", "6.25")
	results := rule.Validate(&r)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Equal(t, source.ColJurisdictionDesc, results[0].Field)
	assert.Contains(t, results[0].Message, "jurisdiction_desc")

	r = row(2, "TX001", "Texas", "6.25")
	results = rule.Validate(&r)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
}

func TestNumericRateRule(t *testing.T) {
	rule := NumericRateRule()

	cases := []struct {
		rate   string
		passed bool
	}{
		{"6.25", true},
		{"0", true},
		{"8.875%", true}, // spreadsheet exports append %
		{"abc", false},
		{"6,25", false},
		{"", false},
	}
	for _, tc := range cases {
		r := row(1, "X", "Y", tc.rate)
		results := rule.Validate(&r)
		require.Len(t, results, 1, "rate %q", tc.rate)
		assert.Equal(t, tc.passed, results[0].Passed, "rate %q", tc.rate)
	}
}

func TestRateRangeRule(t *testing.T) {
	rule := RateRangeRule(0, 100)

	r := row(1, "X", "Y", "101")
	results := rule.Validate(&r)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)

	r = row(2, "X", "Y", "-1")
	results = rule.Validate(&r)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)

	r = row(3, "X", "Y", "100")
	results = rule.Validate(&r)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)

	// Unparseable rates are the format rule's problem.
	r = row(4, "X", "Y", "abc")
	assert.Empty(t, rule.Validate(&r))
}

func TestDuplicateIDRule(t *testing.T) {
	rule := DuplicateIDRule()

	first := row(1, "TX001", "Texas", "6.25")
	results := rule.Validate(&first)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)

	dup := row(3, "TX001", "Texas again", "6.25")
	results = rule.Validate(&dup)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Contains(t, results[0].Message, "row 1")

	// Empty IDs are never counted as duplicates of each other.
	empty := row(4, "", "Nameless", "1")
	assert.Empty(t, rule.Validate(&empty))
}

func TestRegistryRun_SplitsRecordsAndErrors(t *testing.T) {
	rows := []source.Row{
		row(1, "TX001", "Texas", "6.25"),
		row(2, "CA001", "", "7.25"),      // missing desc
		row(3, "NY001", "New York", "x"), // bad rate
		row(4, "TX001", "Texas dup", "1"),
	}

	records, errs := Default().Run(rows)

	require.Len(t, records, 1)
	assert.Equal(t, "TX001", records[0].JurisdictionID)
	assert.Equal(t, 6.25, records[0].TaxPercentage)
	assert.Equal(t, 1, records[0].Row)

	require.Len(t, errs, 3)
	assert.Equal(t, 2, errs[0].Row)
	assert.Equal(t, source.ColJurisdictionDesc, errs[0].Field)
	assert.Equal(t, 3, errs[1].Row)
	assert.Equal(t, source.ColTaxPercentage, errs[1].Field)
	assert.Equal(t, 4, errs[2].Row)
	assert.Equal(t, source.ColJurisdictionID, errs[2].Field)
}

func TestRegistryRun_CollectsAllErrorsOnOneRow(t *testing.T) {
	rows := []source.Row{row(1, "", "", "nope")}

	records, errs := Default().Run(rows)
	assert.Empty(t, records)
	// id required, desc required, rate format: the full picture, not just the first.
	assert.Len(t, errs, 3)
}

func TestParseRate(t *testing.T) {
	v, err := ParseRate(" 6.25% ")
	require.NoError(t, err)
	assert.Equal(t, 6.25, v)

	_, err = ParseRate("six")
	assert.Error(t, err)
}
