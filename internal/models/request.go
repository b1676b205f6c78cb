package models

// OpenObservationRequest asks the server to parse and cache a raw lightcurve
type OpenObservationRequest struct {
	Path string `json:"path"`
}

// DownloadRequest asks the server to fetch raw lightcurves from the archive
type DownloadRequest struct {
	Files []string `json:"files"`
}
