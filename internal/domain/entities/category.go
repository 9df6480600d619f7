package entities

// CategorySummary is one entry of the category listing.
type CategorySummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Icon  string `json:"icon"`
}
