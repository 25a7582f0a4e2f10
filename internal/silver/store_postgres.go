package silver

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists the conformed layer in PostgreSQL. Each Replace
// runs truncate plus bulk insert inside one transaction so a failed run
// never leaves a half-replaced table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed silver store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) replace(ctx context.Context, table string, insert string, rows int, bind func(int) []any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace %s: %w", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "TRUNCATE "+table); err != nil {
		return fmt.Errorf("truncate %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert %s: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < rows; i++ {
		if _, err := stmt.ExecContext(ctx, bind(i)...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace %s: %w", table, err)
	}
	return nil
}

func (s *PostgresStore) ReplaceCustomers(ctx context.Context, rows []Customer) error {
	return s.replace(ctx, "silver.customers", `
		INSERT INTO silver.customers
			(customer_id, customer_key, first_name, last_name, marital_status, gender, create_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.CustomerID, r.CustomerKey, r.FirstName, r.LastName, r.MaritalStatus, r.Gender, r.CreateDate}
		})
}

func (s *PostgresStore) ReplaceProducts(ctx context.Context, rows []Product) error {
	return s.replace(ctx, "silver.products", `
		INSERT INTO silver.products
			(product_id, category_id, product_number, product_name, cost, product_line, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.ProductID, r.CategoryID, r.ProductNumber, r.Name, r.Cost, r.Line, r.StartDate, r.EndDate}
		})
}

func (s *PostgresStore) ReplaceSales(ctx context.Context, rows []Sale) error {
	return s.replace(ctx, "silver.sales", `
		INSERT INTO silver.sales
			(order_number, product_key, customer_id, order_date, ship_date, due_date, sales, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.OrderNumber, r.ProductKey, r.CustomerID, r.OrderDate, r.ShipDate, r.DueDate, r.Sales, r.Quantity, r.Price}
		})
}

func (s *PostgresStore) ReplaceDemographics(ctx context.Context, rows []Demographic) error {
	return s.replace(ctx, "silver.demographics", `
		INSERT INTO silver.demographics (customer_id, birthdate, gender)
		VALUES ($1, $2, $3)`,
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.CustomerID, r.Birthdate, r.Gender}
		})
}

func (s *PostgresStore) ReplaceLocations(ctx context.Context, rows []Location) error {
	return s.replace(ctx, "silver.locations", `
		INSERT INTO silver.locations (customer_id, country)
		VALUES ($1, $2)`,
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.CustomerID, r.Country}
		})
}

func (s *PostgresStore) ReplaceCategories(ctx context.Context, rows []Category) error {
	return s.replace(ctx, "silver.categories", `
		INSERT INTO silver.categories (category_id, category, subcategory, maintenance)
		VALUES ($1, $2, $3, $4)`,
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{r.CategoryID, r.Category, r.Subcategory, r.Maintenance}
		})
}

func (s *PostgresStore) Customers(ctx context.Context) ([]Customer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT customer_id, customer_key, first_name, last_name, marital_status, gender, create_date
		FROM silver.customers
		ORDER BY customer_id`)
	if err != nil {
		return nil, fmt.Errorf("query silver customers: %w", err)
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var r Customer
		if err := rows.Scan(&r.CustomerID, &r.CustomerKey, &r.FirstName, &r.LastName,
			&r.MaritalStatus, &r.Gender, &r.CreateDate); err != nil {
			return nil, fmt.Errorf("scan silver customer: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Products(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, category_id, product_number, product_name, cost, product_line, start_date, end_date
		FROM silver.products
		ORDER BY product_number, start_date, product_id`)
	if err != nil {
		return nil, fmt.Errorf("query silver products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var r Product
		if err := rows.Scan(&r.ProductID, &r.CategoryID, &r.ProductNumber, &r.Name,
			&r.Cost, &r.Line, &r.StartDate, &r.EndDate); err != nil {
			return nil, fmt.Errorf("scan silver product: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Sales(ctx context.Context) ([]Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT order_number, product_key, customer_id, order_date, ship_date, due_date, sales, quantity, price
		FROM silver.sales
		ORDER BY order_number, product_key`)
	if err != nil {
		return nil, fmt.Errorf("query silver sales: %w", err)
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		var r Sale
		if err := rows.Scan(&r.OrderNumber, &r.ProductKey, &r.CustomerID, &r.OrderDate,
			&r.ShipDate, &r.DueDate, &r.Sales, &r.Quantity, &r.Price); err != nil {
			return nil, fmt.Errorf("scan silver sale: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Demographics(ctx context.Context) ([]Demographic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT customer_id, birthdate, gender FROM silver.demographics ORDER BY customer_id`)
	if err != nil {
		return nil, fmt.Errorf("query silver demographics: %w", err)
	}
	defer rows.Close()

	var out []Demographic
	for rows.Next() {
		var r Demographic
		if err := rows.Scan(&r.CustomerID, &r.Birthdate, &r.Gender); err != nil {
			return nil, fmt.Errorf("scan silver demographic: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Locations(ctx context.Context) ([]Location, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT customer_id, country FROM silver.locations ORDER BY customer_id`)
	if err != nil {
		return nil, fmt.Errorf("query silver locations: %w", err)
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var r Location
		if err := rows.Scan(&r.CustomerID, &r.Country); err != nil {
			return nil, fmt.Errorf("scan silver location: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Categories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id, category, subcategory, maintenance FROM silver.categories ORDER BY category_id`)
	if err != nil {
		return nil, fmt.Errorf("query silver categories: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var r Category
		if err := rows.Scan(&r.CategoryID, &r.Category, &r.Subcategory, &r.Maintenance); err != nil {
			return nil, fmt.Errorf("scan silver category: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
