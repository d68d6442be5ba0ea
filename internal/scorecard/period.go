package scorecard

import "strconv"

// Period labels, keyed off a March fiscal year-end: the March date closes
// the annual period, June the first quarter, and so on.
const (
	PeriodAnnual = "Annual"
	PeriodQ1     = "Q1"
	PeriodQ2     = "Q2"
	PeriodQ3     = "Q3"
)

// PeriodLabel maps a reporting date to its period label by month.
// Unrecognized months fold into the annual label rather than inventing
// a new one.
func PeriodLabel(date string) string {
	switch monthOf(date) {
	case 3:
		return PeriodAnnual
	case 6:
		return PeriodQ1
	case 9:
		return PeriodQ2
	case 12:
		return PeriodQ3
	default:
		return PeriodAnnual
	}
}

func monthOf(date string) int {
	// ISO layout: YYYY-MM-DD.
	if len(date) < 7 {
		return 0
	}
	m, err := strconv.Atoi(date[5:7])
	if err != nil {
		return 0
	}
	return m
}
