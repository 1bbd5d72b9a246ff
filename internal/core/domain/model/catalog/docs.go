// Package catalog models the read-only side of the marketplace that order placement
// depends on: restaurants (with their open/active gate, minimum order and location) and
// menu items (price, discount, availability, priced add-ons).
package catalog
