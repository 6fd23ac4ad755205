package reporting

import "github.com/workhubhq/workhub/internal/domain/models"

// MemberHours is one member's hour total for an aggregation period.
type MemberHours struct {
	UserID     string  `json:"userId"`
	UserName   string  `json:"userName"`
	TotalHours float64 `json:"totalHours"`
}

// AggregateHours rolls up yesterday-task hours per member. Hours are
// credited from each report's yesterday tasks because those carry the
// actuals for the previous working day; callers shift the fetch window by
// one day to compensate. Every profile appears in the result, members with
// no reports at zero, in the order profiles were given.
func AggregateHours(profiles []models.Profile, reports []models.Report) []MemberHours {
	byUser := make(map[string]float64, len(profiles))
	for _, rep := range reports {
		byUser[rep.UserID.Hex()] += TotalHours(rep.YesterdayTasks)
	}

	out := make([]MemberHours, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, MemberHours{
			UserID:     p.ID.Hex(),
			UserName:   p.Name,
			TotalHours: byUser[p.ID.Hex()],
		})
	}
	return out
}

// Statistics summarizes a set of one member's reports for the stats view.
type Statistics struct {
	TotalReports          int     `json:"totalReports"`
	TotalYesterdayHours   float64 `json:"totalYesterdayHours"`
	TotalTodayHours       float64 `json:"totalTodayHours"`
	AverageYesterdayHours float64 `json:"averageYesterdayHours"`
	AverageTodayHours     float64 `json:"averageTodayHours"`
	TotalTasks            int     `json:"totalTasks"`
}

// ComputeStatistics computes report counts, hour totals, and averages over
// a member's reports. An empty slice yields the zero value.
func ComputeStatistics(reports []models.Report) Statistics {
	var st Statistics
	st.TotalReports = len(reports)
	if st.TotalReports == 0 {
		return st
	}

	for _, rep := range reports {
		st.TotalYesterdayHours += TotalHours(rep.YesterdayTasks)
		st.TotalTodayHours += TotalHours(rep.TodayTasks)
		st.TotalTasks += len(rep.YesterdayTasks) + len(rep.TodayTasks)
	}
	st.AverageYesterdayHours = st.TotalYesterdayHours / float64(st.TotalReports)
	st.AverageTodayHours = st.TotalTodayHours / float64(st.TotalReports)
	return st
}
