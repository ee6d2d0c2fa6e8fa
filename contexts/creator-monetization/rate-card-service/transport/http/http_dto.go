package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateProgramRequest struct {
	Name             string  `json:"name"`
	Description      string  `json:"description,omitempty"`
	RatePer100KViews float64 `json:"rate_per_100k_views"`
}

type UpdateRateRequest struct {
	RatePer100KViews float64 `json:"rate_per_100k_views"`
}

type ProgramDTO struct {
	ProgramID        string  `json:"program_id"`
	Name             string  `json:"name"`
	Description      string  `json:"description,omitempty"`
	RatePer100KViews float64 `json:"rate_per_100k_views"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type ProgramResponse struct {
	Program ProgramDTO `json:"program"`
}

type ListProgramsResponse struct {
	Items []ProgramDTO `json:"items"`
}
