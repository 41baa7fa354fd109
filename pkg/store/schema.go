// pkg/store/schema.go
package store

import "context"

// createTableStatements define the canonical sub-category-keyed schema.
// The layout priority CHECK admits only the two values the planner
// produces, and sections are range-checked at write time as well.
var createTableStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id TEXT PRIMARY KEY,
		customer_name TEXT NOT NULL,
		segment TEXT NOT NULL,
		country TEXT NOT NULL,
		region TEXT NOT NULL,
		city TEXT NOT NULL,
		state_province TEXT NOT NULL,
		postal_code TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id TEXT PRIMARY KEY,
		sub_category TEXT NOT NULL,
		product_name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id SERIAL PRIMARY KEY,
		order_id TEXT,
		customer_id TEXT REFERENCES customers(customer_id),
		product_id TEXT REFERENCES products(product_id),
		sales NUMERIC NOT NULL,
		quantity INTEGER NOT NULL,
		discount NUMERIC NOT NULL,
		profit NUMERIC NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS normalized_data (
		id SERIAL PRIMARY KEY,
		order_id TEXT NOT NULL,
		customer_id TEXT REFERENCES customers(customer_id),
		product_id TEXT REFERENCES products(product_id),
		sub_category TEXT NOT NULL,
		sales NUMERIC NOT NULL,
		quantity INTEGER NOT NULL,
		profit NUMERIC NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS layout_recommendations (
		id SERIAL PRIMARY KEY,
		product_id TEXT REFERENCES products(product_id),
		section INTEGER NOT NULL CHECK (section >= 0 AND section < 30),
		priority TEXT CHECK (priority IN ('high', 'medium')),
		sub_category TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS analysis_results (
		id SERIAL PRIMARY KEY,
		metrics JSONB NOT NULL,
		sub_category_analysis JSONB NOT NULL,
		top_products JSONB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS file_history (
		id SERIAL PRIMARY KEY,
		filename TEXT NOT NULL,
		status TEXT NOT NULL,
		error_message TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE OR REPLACE VIEW section_products AS
	SELECT
		lr.section,
		lr.priority,
		lr.sub_category,
		json_agg(json_build_object(
			'id', p.product_id,
			'name', p.product_name
		)) AS products
	FROM layout_recommendations AS lr
	JOIN products AS p ON p.product_id = lr.product_id
	GROUP BY lr.section, lr.priority, lr.sub_category`,
}

// createTables ensures the canonical schema exists
func (s *PostgresStore) createTables(ctx context.Context) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	for _, stmt := range createTableStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	s.logger.Info("Ensured canonical schema exists")
	return nil
}
