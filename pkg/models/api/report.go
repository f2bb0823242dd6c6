package api

// GenerateReportRequest is the JSON body of POST /api/v1/reports.
type GenerateReportRequest struct {
	Scope    string `json:"scope"`              // "category" | "overall"
	Category string `json:"category,omitempty"` // required iff scope == "category"
	Format   string `json:"format"`             // "csv" | "pdf"
	Days     int    `json:"days,omitempty"`     // history window; 0 means everything
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
