package models

import "time"

// Sentinel marks a field the extraction passes could not determine.
// Records never carry empty strings — absence is always this value.
const Sentinel = "N/A"

// RawPlace holds the unparsed text bundle read from one result card in the
// feed. InfoText is every info fragment of the card joined with " · "; after
// the join individual fragments are no longer addressable, so all later
// extraction works positionally on the joined string.
type RawPlace struct {
	NameRaw     string
	InfoTextRaw string
	WebsiteRaw  string
	ScrapedAt   time.Time
}

// Place is the parsed, validated record. Every field is populated: a value
// the parser could not determine holds Sentinel.
type Place struct {
	Name      string
	Rating    string
	Reviews   string
	Price     string
	Type      string
	Address   string
	Phone     string
	Website   string
	ScrapedAt time.Time
}

// NewPlace returns a Place with every field set to the sentinel.
func NewPlace() *Place {
	return &Place{
		Name:    Sentinel,
		Rating:  Sentinel,
		Reviews: Sentinel,
		Price:   Sentinel,
		Type:    Sentinel,
		Address: Sentinel,
		Phone:   Sentinel,
		Website: Sentinel,
	}
}

// SummaryReport holds the computed statistics over a scraped batch.
type SummaryReport struct {
	TotalPlaces      int
	RatedPlaces      int
	PricedPlaces     int
	WithPhone        int
	TopRated         []*Place
	PlacesByCategory map[string]int
}
