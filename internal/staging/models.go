// Package staging defines the bronze-layer contract: raw per-source records
// as the external source loader lands them, loosely typed and unvalidated.
// Every field that can be absent in the source is a pointer; the cleansing
// engine owns all repair.
package staging

import "time"

// CustomerRow is a raw CRM customer record.
type CustomerRow struct {
	// Ordinal is the arrival position in the staging snapshot. It is the
	// deterministic tie-break when two rows share identical recency.
	Ordinal       int64
	CustomerID    *int64
	CustomerKey   *string
	FirstName     *string
	LastName      *string
	MaritalStatus *string
	Gender        *string
	CreateDate    *time.Time
}

// ProductRow is a raw CRM product record. ProductKey packs the category
// prefix and the short product code into one field.
type ProductRow struct {
	Ordinal    int64
	ProductID  *int64
	ProductKey *string
	Name       *string
	Cost       *float64
	Line       *string
	StartDate  *time.Time
	EndDate    *time.Time
}

// SalesRow is a raw CRM sales transaction. The three date fields arrive as
// integer-encoded tokens (YYYYMMDD), not dates.
type SalesRow struct {
	Ordinal     int64
	OrderNumber *string
	ProductKey  *string
	CustomerID  *int64
	OrderDate   *int64
	ShipDate    *int64
	DueDate     *int64
	Sales       *float64
	Quantity    *int64
	Price       *float64
}

// DemographicRow is a raw ERP customer demographic record. CustomerID may
// carry a legacy "NAS" prefix.
type DemographicRow struct {
	Ordinal    int64
	CustomerID *string
	Birthdate  *time.Time
	Gender     *string
}

// LocationRow is a raw ERP customer location record. CustomerID may carry
// embedded dashes.
type LocationRow struct {
	Ordinal    int64
	CustomerID *string
	Country    *string
}

// CategoryRow is a raw ERP product category record.
type CategoryRow struct {
	Ordinal     int64
	CategoryID  *string
	Category    *string
	Subcategory *string
	Maintenance *string
}

// Snapshot is one complete read of the staging store. The pipeline always
// operates on a full snapshot; there is no incremental visibility.
type Snapshot struct {
	Customers    []CustomerRow
	Products     []ProductRow
	Sales        []SalesRow
	Demographics []DemographicRow
	Locations    []LocationRow
	Categories   []CategoryRow
}
