package response_models

type TierPlan struct {
	Tier         string `json:"tier"`
	DailyPrice   int64  `json:"daily_price"`
	WeeklyPrice  int64  `json:"weekly_price"`
	MonthlyPrice int64  `json:"monthly_price"`
	Priority     int    `json:"priority"`
}
