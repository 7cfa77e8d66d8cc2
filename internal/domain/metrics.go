package domain

// LedgerMetrics is an operational snapshot served by GET /api/metrics/ledger.
type LedgerMetrics struct {
	TotalRequests     int64            `json:"totalRequests"`
	ErrorRate         float64          `json:"errorRate"`
	CacheHitRate      float64          `json:"cacheHitRate"`
	MutationsByEntity map[string]int64 `json:"mutationsByEntity"`
	Period            string           `json:"period"`
}
