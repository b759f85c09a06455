package catalog

import "pos-receipt/pos/types"

// seedItems is the menu used when no snapshot has been stored yet
var seedItems = []types.CatalogItem{
	{Name: "Soft Cookie 1 pcs", Price: 20_000},
	{Name: "Soft Cookies 3 pcs", Price: 55_000},
	{Name: "Soft Cookies 6 pcs", Price: 100_000},
	{Name: "Soft Cookies 12 pcs", Price: 190_000},
	{Name: "Tiramisu", Price: 35_000},
	{Name: "Banana Milk", Price: 35_000},
	{Name: "Brookies", Price: 18_000},
	{Name: "Milo Dinosaur", Price: 22_000},
	{Name: "Matcha Latte", Price: 28_000},
	{Name: "Aren Latte", Price: 25_000},
	{Name: "Cold Brew", Price: 20_000},
	{Name: "Kefir", Price: 28_000},
	{Name: "Mineral Water", Price: 8_000},
}

// DefaultCatalog returns a fresh copy of the seed menu. Items carry no id.
func DefaultCatalog() types.Catalog {
	c := make(types.Catalog, len(seedItems))
	copy(c, seedItems)
	return c
}
