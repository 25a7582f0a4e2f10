package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema holds the warehouse DDL. Staging tables are loaded by the external
// source loader; silver and gold tables are owned by this pipeline and fully
// replaced on every run.
const Schema = `
CREATE SCHEMA IF NOT EXISTS staging;
CREATE SCHEMA IF NOT EXISTS silver;
CREATE SCHEMA IF NOT EXISTS gold;

CREATE TABLE IF NOT EXISTS staging.crm_customers (
    ordinal        BIGSERIAL PRIMARY KEY,
    customer_id    INTEGER,
    customer_key   TEXT,
    first_name     TEXT,
    last_name      TEXT,
    marital_status TEXT,
    gender         TEXT,
    create_date    DATE
);

CREATE TABLE IF NOT EXISTS staging.crm_products (
    ordinal      BIGSERIAL PRIMARY KEY,
    product_id   INTEGER,
    product_key  TEXT,
    product_name TEXT,
    cost         NUMERIC,
    product_line TEXT,
    start_date   DATE,
    end_date     DATE
);

CREATE TABLE IF NOT EXISTS staging.crm_sales (
    ordinal      BIGSERIAL PRIMARY KEY,
    order_number TEXT,
    product_key  TEXT,
    customer_id  INTEGER,
    order_date   BIGINT,
    ship_date    BIGINT,
    due_date     BIGINT,
    sales        NUMERIC,
    quantity     INTEGER,
    price        NUMERIC
);

CREATE TABLE IF NOT EXISTS staging.erp_demographics (
    ordinal     BIGSERIAL PRIMARY KEY,
    customer_id TEXT,
    birthdate   DATE,
    gender      TEXT
);

CREATE TABLE IF NOT EXISTS staging.erp_locations (
    ordinal     BIGSERIAL PRIMARY KEY,
    customer_id TEXT,
    country     TEXT
);

CREATE TABLE IF NOT EXISTS staging.erp_categories (
    ordinal     BIGSERIAL PRIMARY KEY,
    category_id TEXT,
    category    TEXT,
    subcategory TEXT,
    maintenance TEXT
);

CREATE TABLE IF NOT EXISTS silver.customers (
    customer_id    INTEGER PRIMARY KEY,
    customer_key   TEXT NOT NULL,
    first_name     TEXT NOT NULL,
    last_name      TEXT NOT NULL,
    marital_status TEXT NOT NULL,
    gender         TEXT NOT NULL,
    create_date    DATE
);

CREATE TABLE IF NOT EXISTS silver.products (
    product_id     INTEGER NOT NULL,
    category_id    TEXT NOT NULL,
    product_number TEXT NOT NULL,
    product_name   TEXT NOT NULL,
    cost           NUMERIC NOT NULL,
    product_line   TEXT NOT NULL,
    start_date     DATE,
    end_date       DATE
);

CREATE TABLE IF NOT EXISTS silver.sales (
    order_number TEXT NOT NULL,
    product_key  TEXT NOT NULL,
    customer_id  INTEGER,
    order_date   DATE,
    ship_date    DATE,
    due_date     DATE,
    sales        NUMERIC NOT NULL,
    quantity     INTEGER NOT NULL,
    price        NUMERIC
);

CREATE TABLE IF NOT EXISTS silver.demographics (
    customer_id TEXT PRIMARY KEY,
    birthdate   DATE,
    gender      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS silver.locations (
    customer_id TEXT PRIMARY KEY,
    country     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS silver.categories (
    category_id TEXT PRIMARY KEY,
    category    TEXT NOT NULL,
    subcategory TEXT NOT NULL,
    maintenance TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS gold.dim_customers (
    customer_key    INTEGER PRIMARY KEY,
    customer_id     INTEGER NOT NULL,
    customer_number TEXT NOT NULL,
    first_name      TEXT NOT NULL,
    last_name       TEXT NOT NULL,
    gender          TEXT NOT NULL,
    birthdate       DATE,
    marital_status  TEXT NOT NULL,
    country         TEXT NOT NULL,
    create_date     DATE
);

CREATE TABLE IF NOT EXISTS gold.dim_products (
    product_key      INTEGER PRIMARY KEY,
    product_id       INTEGER NOT NULL,
    product_number   TEXT NOT NULL,
    product_name     TEXT NOT NULL,
    category_id      TEXT NOT NULL,
    category         TEXT NOT NULL,
    subcategory      TEXT NOT NULL,
    maintenance_flag TEXT NOT NULL,
    cost             NUMERIC NOT NULL,
    product_line     TEXT NOT NULL,
    start_date       DATE
);

CREATE TABLE IF NOT EXISTS gold.fact_sales (
    order_number  TEXT NOT NULL,
    product_key   INTEGER,
    customer_key  INTEGER,
    order_date    DATE,
    shipping_date DATE,
    due_date      DATE,
    sales_amount  NUMERIC NOT NULL,
    quantity      INTEGER NOT NULL,
    price         NUMERIC
);
`

// EnsureSchema creates the warehouse schemas and tables if missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
