// Package silver defines the conformed layer: one row per business key per
// entity, cleansed vocabularies, typed dates, repaired measures. Consumers
// may assume zero duplicate business keys and zero malformed dates but must
// tolerate null derived fields.
package silver

import "time"

// Customer is a conformed CRM customer. CustomerID is unique and non-null.
type Customer struct {
	CustomerID    int64
	CustomerKey   string
	FirstName     string
	LastName      string
	MaritalStatus string
	Gender        string
	CreateDate    *time.Time
}

// Product is a conformed CRM product. CategoryID and ProductNumber are the
// decomposed halves of the raw packed key. EndDate is derived, never stored
// upstream; nil means currently in production.
type Product struct {
	ProductID     int64
	CategoryID    string
	ProductNumber string
	Name          string
	Cost          float64
	Line          string
	StartDate     *time.Time
	EndDate       *time.Time
}

// Sale is a conformed sales transaction. Sales always satisfies
// |quantity| x |price| whenever the raw value was missing or inconsistent.
// CustomerID is a nullable foreign reference; a missing raw value survives
// as null so the fact join cannot mistake it for a real id.
type Sale struct {
	OrderNumber string
	ProductKey  string
	CustomerID  *int64
	OrderDate   *time.Time
	ShipDate    *time.Time
	DueDate     *time.Time
	Sales       float64
	Quantity    int64
	Price       *float64
}

// Demographic is a conformed ERP demographic record, keyed by the same
// customer number as Customer.CustomerKey.
type Demographic struct {
	CustomerID string
	Birthdate  *time.Time
	Gender     string
}

// Location is a conformed ERP location record.
type Location struct {
	CustomerID string
	Country    string
}

// Category is a conformed ERP product category record.
type Category struct {
	CategoryID  string
	Category    string
	Subcategory string
	Maintenance string
}
