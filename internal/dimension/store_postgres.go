package dimension

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists the gold layer in PostgreSQL. All three relations
// are swapped inside a single transaction so downstream readers never see a
// partially assembled star schema.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed gold store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Replace(ctx context.Context, customers []DimCustomer, products []DimProduct, facts []FactSale) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin gold replace: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"gold.fact_sales", "gold.dim_customers", "gold.dim_products"} {
		if _, err := tx.ExecContext(ctx, "TRUNCATE "+table); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}

	if err := insertCustomers(ctx, tx, customers); err != nil {
		return err
	}
	if err := insertProducts(ctx, tx, products); err != nil {
		return err
	}
	if err := insertFacts(ctx, tx, facts); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit gold replace: %w", err)
	}
	return nil
}

func insertCustomers(ctx context.Context, tx *sql.Tx, rows []DimCustomer) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO gold.dim_customers
			(customer_key, customer_id, customer_number, first_name, last_name,
			 gender, birthdate, marital_status, country, create_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`)
	if err != nil {
		return fmt.Errorf("prepare dim_customers insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.CustomerKey, r.CustomerID, r.CustomerNumber,
			r.FirstName, r.LastName, r.Gender, r.Birthdate, r.MaritalStatus, r.Country, r.CreateDate); err != nil {
			return fmt.Errorf("insert dim_customer %d: %w", r.CustomerID, err)
		}
	}
	return nil
}

func insertProducts(ctx context.Context, tx *sql.Tx, rows []DimProduct) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO gold.dim_products
			(product_key, product_id, product_number, product_name, category_id,
			 category, subcategory, maintenance_flag, cost, product_line, start_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`)
	if err != nil {
		return fmt.Errorf("prepare dim_products insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.ProductKey, r.ProductID, r.ProductNumber,
			r.ProductName, r.CategoryID, r.Category, r.Subcategory, r.MaintenanceFlag,
			r.Cost, r.Line, r.StartDate); err != nil {
			return fmt.Errorf("insert dim_product %d: %w", r.ProductID, err)
		}
	}
	return nil
}

func insertFacts(ctx context.Context, tx *sql.Tx, rows []FactSale) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO gold.fact_sales
			(order_number, product_key, customer_key, order_date, shipping_date,
			 due_date, sales_amount, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)
	if err != nil {
		return fmt.Errorf("prepare fact_sales insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.OrderNumber, r.ProductKey, r.CustomerKey,
			r.OrderDate, r.ShippingDate, r.DueDate, r.SalesAmount, r.Quantity, r.Price); err != nil {
			return fmt.Errorf("insert fact_sale %s: %w", r.OrderNumber, err)
		}
	}
	return nil
}

func (s *PostgresStore) Customers(ctx context.Context) ([]DimCustomer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT customer_key, customer_id, customer_number, first_name, last_name,
		       gender, birthdate, marital_status, country, create_date
		FROM gold.dim_customers
		ORDER BY customer_key`)
	if err != nil {
		return nil, fmt.Errorf("query dim_customers: %w", err)
	}
	defer rows.Close()

	var out []DimCustomer
	for rows.Next() {
		var r DimCustomer
		if err := rows.Scan(&r.CustomerKey, &r.CustomerID, &r.CustomerNumber, &r.FirstName,
			&r.LastName, &r.Gender, &r.Birthdate, &r.MaritalStatus, &r.Country, &r.CreateDate); err != nil {
			return nil, fmt.Errorf("scan dim_customer: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Products(ctx context.Context) ([]DimProduct, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_key, product_id, product_number, product_name, category_id,
		       category, subcategory, maintenance_flag, cost, product_line, start_date
		FROM gold.dim_products
		ORDER BY product_key`)
	if err != nil {
		return nil, fmt.Errorf("query dim_products: %w", err)
	}
	defer rows.Close()

	var out []DimProduct
	for rows.Next() {
		var r DimProduct
		if err := rows.Scan(&r.ProductKey, &r.ProductID, &r.ProductNumber, &r.ProductName,
			&r.CategoryID, &r.Category, &r.Subcategory, &r.MaintenanceFlag, &r.Cost,
			&r.Line, &r.StartDate); err != nil {
			return nil, fmt.Errorf("scan dim_product: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Facts(ctx context.Context) ([]FactSale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT order_number, product_key, customer_key, order_date, shipping_date,
		       due_date, sales_amount, quantity, price
		FROM gold.fact_sales
		ORDER BY order_number, product_key NULLS FIRST`)
	if err != nil {
		return nil, fmt.Errorf("query fact_sales: %w", err)
	}
	defer rows.Close()

	var out []FactSale
	for rows.Next() {
		var r FactSale
		if err := rows.Scan(&r.OrderNumber, &r.ProductKey, &r.CustomerKey, &r.OrderDate,
			&r.ShippingDate, &r.DueDate, &r.SalesAmount, &r.Quantity, &r.Price); err != nil {
			return nil, fmt.Errorf("scan fact_sale: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
