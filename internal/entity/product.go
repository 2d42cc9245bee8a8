package entity

// Product is a catalog entry used for code lookups and external ids.
type Product struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	ExternalID int64  `json:"external_id,omitempty"`
}
