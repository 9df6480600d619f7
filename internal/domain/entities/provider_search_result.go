package entities

// Service list names used to tag extracted free services.
const (
	SourceGeneralServices     = "general_services"
	SourceSpecializedServices = "specialized_services"
	SourceDiagnosticServices  = "diagnostic_services"
)

// ProviderSearchResult represents the enriched search payload returned to the UI.
type ProviderSearchResult struct {
	Provider
	Distance              float64            `json:"distance"`
	ExtractedFreeServices []ExtractedService `json:"extractedFreeServices"`
	FreeServicesCount     int                `json:"freeServicesCount"`
}

// ExtractedService is a free or discounted service entry tagged with the list it came from.
type ExtractedService struct {
	ServiceEntry
	Source string `json:"source"`
}
