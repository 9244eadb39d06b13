package constants

// AnalysisStatus is the canonical status for rows in analysis.
type AnalysisStatus string

// Stable values (store these exact strings in DB).
const (
	AnalysisStatusRunning AnalysisStatus = "RUNNING" // in progress
	AnalysisStatusOK      AnalysisStatus = "OK"      // structured result stored
	AnalysisStatusFailed  AnalysisStatus = "FAILED"  // terminal failure
)

// FieldStatus is the per key-field verdict shown next to each value in reports.
type FieldStatus string

const (
	FieldStatusOK      FieldStatus = "OK"
	FieldStatusMissing FieldStatus = "Missing"
	FieldStatusInvalid FieldStatus = "Invalid"
)
