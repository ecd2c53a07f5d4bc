package billing

import "aihelper/internal/domain"

// Package describes one purchasable credit bundle.
type Package struct {
	Type            domain.PackageType `json:"type"`
	Title           string             `json:"title"`
	AmountMinor     int64              `json:"amount"`
	RequestsGranted int                `json:"requests_count"`
}

// catalog is the fixed set of sellable packages. Prices are minor currency
// units; changing a row here never affects settled purchases, which carry
// their own amount and grant.
var catalog = map[domain.PackageType]Package{
	domain.PackageStandard: {
		Type:            domain.PackageStandard,
		Title:           "Стандарт",
		AmountMinor:     399,
		RequestsGranted: 40,
	},
	domain.PackagePro: {
		Type:            domain.PackagePro,
		Title:           "Про",
		AmountMinor:     749,
		RequestsGranted: 80,
	},
}

// Catalog returns the sellable packages in a stable order.
func Catalog() []Package {
	return []Package{catalog[domain.PackageStandard], catalog[domain.PackagePro]}
}

// LookupPackage resolves a package by type; ok is false for unknown types.
func LookupPackage(t domain.PackageType) (Package, bool) {
	p, ok := catalog[t]
	return p, ok
}
