package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SubmitClipRequest struct {
	ProgramID     string `json:"program_id"`
	Link          string `json:"link"`
	ReportedViews int64  `json:"reported_views"`
}

type EditViewsRequest struct {
	ReportedViews int64 `json:"reported_views"`
}

type ClipDTO struct {
	ClipID         string `json:"clip_id"`
	OwnerAccountID string `json:"owner_account_id"`
	CreatorID      string `json:"creator_id"`
	ProgramID      string `json:"program_id"`
	Link           string `json:"link"`
	Platform       string `json:"platform"`
	ReportedViews  int64  `json:"reported_views"`
	CreditedViews  *int64 `json:"credited_views,omitempty"`
	Status         string `json:"status"`
	PostedAt       string `json:"posted_at,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type SubmitClipResponse struct {
	Clip ClipDTO `json:"clip"`
}

type GetClipResponse struct {
	Clip ClipDTO `json:"clip"`
}

type ListClipsResponse struct {
	Items []ClipDTO `json:"items"`
}

type ReviewClipResponse struct {
	Clip ClipDTO `json:"clip"`
}

type LedgerResponse struct {
	CreatorID            string  `json:"creator_id"`
	CreditedViewsTotal   int64   `json:"credited_views_total"`
	CreditedRevenueTotal float64 `json:"credited_revenue_total"`
}

type DashboardResponse struct {
	Total                int     `json:"total"`
	Pending              int     `json:"pending"`
	Approved             int     `json:"approved"`
	Rejected             int     `json:"rejected"`
	CreditedViewsTotal   int64   `json:"credited_views_total"`
	CreditedRevenueTotal float64 `json:"credited_revenue_total"`
}

type MonthlyEarningsLineDTO struct {
	ClipID        string  `json:"clip_id"`
	ProgramID     string  `json:"program_id"`
	Platform      string  `json:"platform"`
	CreditedViews int64   `json:"credited_views"`
	Revenue       float64 `json:"revenue"`
	PostedAt      string  `json:"posted_at"`
}

type MonthlyEarningsResponse struct {
	CreatorID     string                   `json:"creator_id"`
	Month         string                   `json:"month"`
	Lines         []MonthlyEarningsLineDTO `json:"lines"`
	TotalViews    int64                    `json:"total_views"`
	TotalRevenue  float64                  `json:"total_revenue"`
	ApprovedClips int                      `json:"approved_clips"`
}
