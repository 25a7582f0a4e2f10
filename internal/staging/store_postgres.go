package staging

import (
	"context"
	"database/sql"
	"fmt"

	"prism/pkg/platform/sentinel"
)

// PostgresStore reads staging tables loaded by the external source loader.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed staging store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.Customers, err = s.customers(ctx); err != nil {
		return nil, fmt.Errorf("staging snapshot: %w: %w", sentinel.ErrUnavailable, err)
	}
	if snap.Products, err = s.products(ctx); err != nil {
		return nil, fmt.Errorf("staging snapshot: %w: %w", sentinel.ErrUnavailable, err)
	}
	if snap.Sales, err = s.sales(ctx); err != nil {
		return nil, fmt.Errorf("staging snapshot: %w: %w", sentinel.ErrUnavailable, err)
	}
	if snap.Demographics, err = s.demographics(ctx); err != nil {
		return nil, fmt.Errorf("staging snapshot: %w: %w", sentinel.ErrUnavailable, err)
	}
	if snap.Locations, err = s.locations(ctx); err != nil {
		return nil, fmt.Errorf("staging snapshot: %w: %w", sentinel.ErrUnavailable, err)
	}
	if snap.Categories, err = s.categories(ctx); err != nil {
		return nil, fmt.Errorf("staging snapshot: %w: %w", sentinel.ErrUnavailable, err)
	}
	return &snap, nil
}

func (s *PostgresStore) customers(ctx context.Context) ([]CustomerRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ordinal, customer_id, customer_key, first_name, last_name,
		       marital_status, gender, create_date
		FROM staging.crm_customers
		ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query crm customers: %w", err)
	}
	defer rows.Close()

	var out []CustomerRow
	for rows.Next() {
		var r CustomerRow
		if err := rows.Scan(&r.Ordinal, &r.CustomerID, &r.CustomerKey, &r.FirstName,
			&r.LastName, &r.MaritalStatus, &r.Gender, &r.CreateDate); err != nil {
			return nil, fmt.Errorf("scan crm customer: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) products(ctx context.Context) ([]ProductRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ordinal, product_id, product_key, product_name, cost,
		       product_line, start_date, end_date
		FROM staging.crm_products
		ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query crm products: %w", err)
	}
	defer rows.Close()

	var out []ProductRow
	for rows.Next() {
		var r ProductRow
		if err := rows.Scan(&r.Ordinal, &r.ProductID, &r.ProductKey, &r.Name,
			&r.Cost, &r.Line, &r.StartDate, &r.EndDate); err != nil {
			return nil, fmt.Errorf("scan crm product: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) sales(ctx context.Context) ([]SalesRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ordinal, order_number, product_key, customer_id,
		       order_date, ship_date, due_date, sales, quantity, price
		FROM staging.crm_sales
		ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query crm sales: %w", err)
	}
	defer rows.Close()

	var out []SalesRow
	for rows.Next() {
		var r SalesRow
		if err := rows.Scan(&r.Ordinal, &r.OrderNumber, &r.ProductKey, &r.CustomerID,
			&r.OrderDate, &r.ShipDate, &r.DueDate, &r.Sales, &r.Quantity, &r.Price); err != nil {
			return nil, fmt.Errorf("scan crm sale: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) demographics(ctx context.Context) ([]DemographicRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ordinal, customer_id, birthdate, gender
		FROM staging.erp_demographics
		ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query erp demographics: %w", err)
	}
	defer rows.Close()

	var out []DemographicRow
	for rows.Next() {
		var r DemographicRow
		if err := rows.Scan(&r.Ordinal, &r.CustomerID, &r.Birthdate, &r.Gender); err != nil {
			return nil, fmt.Errorf("scan erp demographic: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) locations(ctx context.Context) ([]LocationRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ordinal, customer_id, country
		FROM staging.erp_locations
		ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query erp locations: %w", err)
	}
	defer rows.Close()

	var out []LocationRow
	for rows.Next() {
		var r LocationRow
		if err := rows.Scan(&r.Ordinal, &r.CustomerID, &r.Country); err != nil {
			return nil, fmt.Errorf("scan erp location: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) categories(ctx context.Context) ([]CategoryRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ordinal, category_id, category, subcategory, maintenance
		FROM staging.erp_categories
		ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query erp categories: %w", err)
	}
	defer rows.Close()

	var out []CategoryRow
	for rows.Next() {
		var r CategoryRow
		if err := rows.Scan(&r.Ordinal, &r.CategoryID, &r.Category, &r.Subcategory, &r.Maintenance); err != nil {
			return nil, fmt.Errorf("scan erp category: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
