package dimension

import "context"

// Store persists the gold layer. Replace swaps all three relations in one
// transaction; readers are the analytical layer and the HTTP transport.
type Store interface {
	Replace(ctx context.Context, customers []DimCustomer, products []DimProduct, facts []FactSale) error

	Customers(ctx context.Context) ([]DimCustomer, error)
	Products(ctx context.Context) ([]DimProduct, error)
	Facts(ctx context.Context) ([]FactSale, error)
}
