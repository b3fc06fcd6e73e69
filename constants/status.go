package constants

// ScanStatus is the canonical status for rows in the scan history store.
type ScanStatus string

// Stable values (store these exact strings in the DB).
const (
	ScanStatusRunning ScanStatus = "RUNNING"  // OCR in progress
	ScanStatusOCROK   ScanStatus = "OCR_OK"   // stage 1 completed (text recognized)
	ScanStatusParseOK ScanStatus = "PARSE_OK" // stage 2 completed (fields extracted)
	ScanStatusFailed  ScanStatus = "FAILED"   // terminal failure
)
