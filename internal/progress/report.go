package progress

import (
	types "github.com/yungbote/goalflow-backend/internal/domain"
)

// Report measures each weekly target against the week's records. A record
// counts towards a target when its unit is Compatible and, for targets tied
// to a goal, when it was logged against that goal.
func Report(targets []*types.WeeklyTarget, records []*types.Record) []types.WeeklyProgress {
	out := make([]types.WeeklyProgress, 0, len(targets))
	for _, t := range targets {
		actual := 0.0
		for _, r := range records {
			if !Compatible(r.Unit, t.Unit) {
				continue
			}
			if t.GoalID != nil && (r.GoalID == nil || *r.GoalID != *t.GoalID) {
				continue
			}
			actual += Convert(r.Quantity, r.Unit, t.Unit)
		}
		out = append(out, types.WeeklyProgress{
			MetricName:      t.MetricName,
			TargetValue:     t.TargetValue,
			ActualValue:     actual,
			Unit:            t.Unit,
			AchievementRate: AchievementRate(actual, t.TargetValue),
		})
	}
	return out
}
