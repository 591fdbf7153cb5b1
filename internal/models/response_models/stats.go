package response_models

type RevenueStatsResponse struct {
	TotalPosts    int64            `json:"total_posts"`
	CountByStatus map[string]int64 `json:"count_by_status"`

	AutoApprovedCount   int64 `json:"auto_approved_count"`
	ManualApprovedCount int64 `json:"manual_approved_count"`

	TotalRevenue        int64 `json:"total_revenue"`
	AutoApprovedRevenue int64 `json:"auto_approved_revenue"`
}
