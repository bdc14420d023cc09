package domain

// Payroll periods are addressed by month and year; both the HTTP bindings and
// the services accept years in this range.
const (
	MinPeriodYear = 2000
	MaxPeriodYear = 2100
)

func ValidPeriod(month, year int) bool {
	return month >= 1 && month <= 12 && year >= MinPeriodYear && year <= MaxPeriodYear
}
