package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ObservationResponse summarizes one derived lightcurve
type ObservationResponse struct {
	ObsID        string  `json:"obs_id"`
	SourceCoords string  `json:"source_coords"`
	Path         string  `json:"path,omitempty"`
	Samples      int     `json:"samples"`
	BinSeconds   float64 `json:"bin_seconds"`
	TotalTime    float64 `json:"total_time"`
	TotalCount   float64 `json:"total_count"`
	RatePerKS    float64 `json:"rate_ks"`
	RatePerS     float64 `json:"rate_s"`
}

// ObservationListResponse represents list observations response
type ObservationListResponse struct {
	Observations []string `json:"observations"`
	Count        int      `json:"count"`
}

// DeleteResponse acknowledges a cache eviction
type DeleteResponse struct {
	ObsID   string `json:"obs_id"`
	Deleted bool   `json:"deleted"`
}

// GalaxyListResponse represents the archive galaxy list
type GalaxyListResponse struct {
	Galaxies []string `json:"galaxies"`
	Count    int      `json:"count"`
}

// GalaxyFilesResponse represents one galaxy's lightcurve index
type GalaxyFilesResponse struct {
	Galaxy string   `json:"galaxy"`
	Files  []string `json:"files"`
	Count  int      `json:"count"`
}

// SyncResponse represents the outcome of a catalog index sync
type SyncResponse struct {
	Fetched int `json:"fetched"`
}

// SearchResponse represents a coordinate search result
type SearchResponse struct {
	Coordinates string   `json:"coordinates"`
	Matches     []string `json:"matches"`
	Count       int      `json:"count"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
