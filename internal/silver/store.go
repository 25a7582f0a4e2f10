package silver

import "context"

// Store persists the conformed layer. Every Replace call fully swaps the
// entity's table: truncate-then-reload, never a partial mutation. Readers
// serve the dimensional assembler and must observe a fully replaced table or
// the previous run's, never a mix.
type Store interface {
	ReplaceCustomers(ctx context.Context, rows []Customer) error
	ReplaceProducts(ctx context.Context, rows []Product) error
	ReplaceSales(ctx context.Context, rows []Sale) error
	ReplaceDemographics(ctx context.Context, rows []Demographic) error
	ReplaceLocations(ctx context.Context, rows []Location) error
	ReplaceCategories(ctx context.Context, rows []Category) error

	Customers(ctx context.Context) ([]Customer, error)
	Products(ctx context.Context) ([]Product, error)
	Sales(ctx context.Context) ([]Sale, error)
	Demographics(ctx context.Context) ([]Demographic, error)
	Locations(ctx context.Context) ([]Location, error)
	Categories(ctx context.Context) ([]Category, error)
}
