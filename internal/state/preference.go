package state

import "github.com/isdl/storefront-gateway/pkg/enums"

// Preference holds the active catalog filter, independent of session identity.
// Values are accepted as-is; the catalog view decides what an unknown value
// means when selecting the fetch endpoint.
type Preference struct {
	ShowProductTypes string `json:"showProductTypes"`
}

// DefaultPreference starts on the "all" sentinel.
func DefaultPreference() Preference {
	return Preference{ShowProductTypes: enums.CategoryAll}
}
