// Package dimension builds the gold layer: surrogate-keyed dimensions with
// cross-source attribute resolution, and the fact table joined to them by
// business key. Surrogate keys are assigned by a fully deterministic
// ordering so re-running over unchanged silver data reproduces them exactly.
package dimension

import "time"

// DimCustomer is one currently valid customer, surrogate-keyed.
type DimCustomer struct {
	CustomerKey    int64
	CustomerID     int64
	CustomerNumber string
	FirstName      string
	LastName       string
	Gender         string
	Birthdate      *time.Time
	MaritalStatus  string
	Country        string
	CreateDate     *time.Time
}

// DimProduct is one currently active product (nil derived end date),
// surrogate-keyed. Category attributes come from the ERP category source via
// outer join and stay empty-on-Unknown when unmatched.
type DimProduct struct {
	ProductKey      int64
	ProductID       int64
	ProductNumber   string
	ProductName     string
	CategoryID      string
	Category        string
	Subcategory     string
	MaintenanceFlag string
	Cost            float64
	Line            string
	StartDate       *time.Time
}

// FactSale is one sales transaction resolved against the dimensions.
// Surrogate keys are nil when the business key had no match: the row is
// retained, never dropped.
type FactSale struct {
	OrderNumber  string
	ProductKey   *int64
	CustomerKey  *int64
	OrderDate    *time.Time
	ShippingDate *time.Time
	DueDate      *time.Time
	SalesAmount  float64
	Quantity     int64
	Price        *float64
}
