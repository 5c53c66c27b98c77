package model

// Category groups concession products (combos, snacks, drinks...).
type Category struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Product is a concession item sold at the counter or online.
//
// Fields:
//  ID         – catalog identifier.
//  SKU        – stock keeping unit, searchable from the register.
//  Name       – display name, copied onto cart lines.
//  PriceCents – unit price in cents.
//  Stock      – units on hand as reported by the admin catalog.
//  CategoryID – owning category.
type Product struct {
	ID         uint64 `json:"id"`
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Stock      int    `json:"stock"`
	CategoryID uint64 `json:"categoryId"`
}
