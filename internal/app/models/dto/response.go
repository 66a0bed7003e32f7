package dto

// HealthResponse is returned by the liveness endpoint
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
