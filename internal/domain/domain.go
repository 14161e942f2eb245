// Package domain holds the closed enumerations and the rate card shared by
// the storage, application, and presentation layers. Every status or category
// string that crosses a layer boundary is defined here exactly once.
package domain

// TableKind classifies a table and selects its rates.
type TableKind string

const (
	TableKindVIP      TableKind = "VIP"
	TableKindStandard TableKind = "Standard"
)

// Valid reports whether the kind is one of the known values.
func (k TableKind) Valid() bool {
	switch k {
	case TableKindVIP, TableKindStandard:
		return true
	}
	return false
}

// TableStatus is the state a table is shown in on the floor grid.
type TableStatus string

const (
	TableStatusEmpty      TableStatus = "Empty"
	TableStatusOccupied   TableStatus = "Occupied"
	TableStatusReserved   TableStatus = "Reserved"
	TableStatusOutOfOrder TableStatus = "OutOfOrder"
)

// Valid reports whether the status is one of the known values.
func (s TableStatus) Valid() bool {
	switch s {
	case TableStatusEmpty, TableStatusOccupied, TableStatusReserved, TableStatusOutOfOrder:
		return true
	}
	return false
}

// SessionMode selects how a billing session is charged at close.
type SessionMode string

const (
	// SessionModeTimed bills elapsed time against the table's hourly rate.
	SessionModeTimed SessionMode = "Timed"
	// SessionModeUnlimited bills the table's flat rate regardless of duration.
	SessionModeUnlimited SessionMode = "Unlimited"
)

// Valid reports whether the mode is one of the known values.
func (m SessionMode) Valid() bool {
	switch m {
	case SessionModeTimed, SessionModeUnlimited:
		return true
	}
	return false
}

// ProductCategory groups catalog entries for order entry and reporting.
type ProductCategory string

const (
	ProductCategoryFood  ProductCategory = "Food"
	ProductCategoryDrink ProductCategory = "Drink"
	ProductCategoryOther ProductCategory = "Other"
)

// Valid reports whether the category is one of the known values.
func (c ProductCategory) Valid() bool {
	switch c {
	case ProductCategoryFood, ProductCategoryDrink, ProductCategoryOther:
		return true
	}
	return false
}

// Rates carries the charge parameters for one table kind.
type Rates struct {
	Hourly float64
	Flat   float64
}

// RateCard maps table kinds to their rates. Loaded once at startup and
// treated as immutable; sessions snapshot the rates they were opened under.
type RateCard map[TableKind]Rates

// DefaultRateCard returns the built-in rate card.
func DefaultRateCard() RateCard {
	return RateCard{
		TableKindVIP:      {Hourly: 30, Flat: 100},
		TableKindStandard: {Hourly: 20, Flat: 70},
	}
}

// RatesFor returns the rates for a kind, falling back to the Standard entry
// for unknown kinds.
func (rc RateCard) RatesFor(kind TableKind) Rates {
	if rates, ok := rc[kind]; ok {
		return rates
	}
	return rc[TableKindStandard]
}
