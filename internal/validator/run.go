package validator

import (
	"taximport/internal/domain"
	"taximport/internal/source"
)

// Run applies every registered rule to every row and splits the input into
// records fit for submission and row-scoped errors. It never stops at the
// first failure: callers get the full picture for the whole file. A row with
// any failing rule is excluded from the returned records.
func (r *Registry) Run(rows []source.Row) ([]domain.TaxRecord, []domain.RowError) {
	var (
		records []domain.TaxRecord
		errs    []domain.RowError
	)

	for i := range rows {
		row := &rows[i]
		rowOK := true

		for _, rule := range r.rules {
			for _, res := range rule.Validate(row) {
				if res.Passed {
					continue
				}
				rowOK = false
				errs = append(errs, domain.RowError{
					Row:            res.Row,
					JurisdictionID: row.Get(source.ColJurisdictionID),
					Field:          res.Field,
					Message:        res.Message,
				})
			}
		}

		if !rowOK {
			continue
		}

		rate, err := ParseRate(row.Get(source.ColTaxPercentage))
		if err != nil {
			// Unreachable once the format rule is registered; kept so a
			// custom registry without it cannot smuggle NaNs through.
			continue
		}
		records = append(records, domain.TaxRecord{
			JurisdictionID:   row.Get(source.ColJurisdictionID),
			JurisdictionDesc: row.Get(source.ColJurisdictionDesc),
			TaxPercentage:    rate,
			Row:              row.Num,
		})
	}

	return records, errs
}
