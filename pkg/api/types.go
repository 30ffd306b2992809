package api

// AskRequest is the body of POST /api/ask
type AskRequest struct {
	Question string `json:"question"`
	APIKey   string `json:"api_key,omitempty"`
}

// AskResponse is the body returned by POST /api/ask.
// Error is set by the server when Answer carries an error description.
type AskResponse struct {
	Answer         string  `json:"answer"`
	Error          bool    `json:"error,omitempty"`
	ProcessingTime float64 `json:"processing_time,omitempty"`
	Cached         bool    `json:"cached,omitempty"`
}

// HealthStatus is the body returned by GET /api/health
type HealthStatus struct {
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"` // unix seconds
	CacheSize int     `json:"cache_size"`
	Version   string  `json:"version"`
}

// Healthy reports whether the server described itself as healthy
func (h HealthStatus) Healthy() bool {
	return h.Status == "ok"
}
