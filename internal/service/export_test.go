package service

// These expose unexported identifiers to the external service_test package.
var (
	ExportCSVHeader        = csvHeader
	ExportInferContentType = inferContentType
)
