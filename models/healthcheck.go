package models

// HealthCheckResponse returns the alive response for the health endpoint
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
