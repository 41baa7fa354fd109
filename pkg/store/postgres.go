// pkg/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/David-Botos/retail-pipeline/pkg/config"
	"github.com/David-Botos/retail-pipeline/pkg/model"
)

// derivedTables are cleared before every run, in FK-safe order.
// file_history is deliberately absent: the audit log survives runs.
var derivedTables = []string{
	"analysis_results",
	"layout_recommendations",
	"normalized_data",
	"sales",
	"products",
	"customers",
}

// PostgresStore implements Repository against PostgreSQL
type PostgresStore struct {
	db     *sqlx.DB
	logger *zap.Logger
	cfg    *config.PostgresConfig
}

// NewPostgresStore connects to PostgreSQL, configures the connection pool
// and ensures the canonical schema exists.
func NewPostgresStore(ctx context.Context, cfg *config.PostgresConfig, logger *zap.Logger) (*PostgresStore, error) {
	logger = logger.Named("postgres-store")

	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("user", cfg.User))

	db, err := sqlx.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	applyConnectionSettings(db, cfg)

	if err := pingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	store := &PostgresStore{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}

	if err := store.createTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// applyConnectionSettings configures database connection pool settings
func applyConnectionSettings(db *sqlx.DB, cfg *config.PostgresConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// pingWithTimeout attempts to ping the database with a timeout
func pingWithTimeout(ctx context.Context, db *sqlx.DB, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping failed after %v: %w", timeout, err)
	}
	return nil
}

// Close closes the connection and releases resources
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// opCtx derives a statement-scoped context from the configured timeout.
func (s *PostgresStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.StatementTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.StatementTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *PostgresStore) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// AddCustomer appends one durable customer row
func (s *PostgresStore) AddCustomer(ctx context.Context, customer model.Customer) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO customers (customer_id, customer_name, segment, country, region, city, state_province, postal_code)
		VALUES (:customer_id, :customer_name, :segment, :country, :region, :city, :state_province, :postal_code)
	`, customer)
	return s.wrap("AddCustomer", err)
}

// AddProduct appends one durable product row
func (s *PostgresStore) AddProduct(ctx context.Context, product model.Product) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO products (product_id, sub_category, product_name)
		VALUES (:product_id, :sub_category, :product_name)
	`, product)
	return s.wrap("AddProduct", err)
}

// AddSale appends one durable sale row
func (s *PostgresStore) AddSale(ctx context.Context, sale model.Sale) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO sales (order_id, customer_id, product_id, sales, quantity, discount, profit)
		VALUES (:order_id, :customer_id, :product_id, :sales, :quantity, :discount, :profit)
	`, sale)
	return s.wrap("AddSale", err)
}

// StoreNormalizedRow appends one normalized analytical row
func (s *PostgresStore) StoreNormalizedRow(ctx context.Context, row model.NormalizedRow) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO normalized_data (order_id, customer_id, product_id, sub_category, sales, quantity, profit)
		VALUES (:order_id, :customer_id, :product_id, :sub_category, :sales, :quantity, :profit)
	`, row)
	return s.wrap("StoreNormalizedRow", err)
}

// StoreAnalysisResult stores one analysis result as JSONB documents
func (s *PostgresStore) StoreAnalysisResult(ctx context.Context, result *model.AnalysisResult) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	metrics, err := json.Marshal(result.Metrics)
	if err != nil {
		return s.wrap("StoreAnalysisResult", err)
	}
	subCategories, err := json.Marshal(result.SubCategoryAnalysis)
	if err != nil {
		return s.wrap("StoreAnalysisResult", err)
	}
	topProducts, err := json.Marshal(result.TopProducts)
	if err != nil {
		return s.wrap("StoreAnalysisResult", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analysis_results (metrics, sub_category_analysis, top_products)
		VALUES ($1, $2, $3)
	`, metrics, subCategories, topProducts)
	return s.wrap("StoreAnalysisResult", err)
}

// StoreLayoutRecommendations stores the full layout for a run in one
// transaction. Section values are validated against the storage range
// before any row is written.
func (s *PostgresStore) StoreLayoutRecommendations(ctx context.Context, layout model.StoreLayout) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	productIDs := make([]string, 0, len(layout))
	for productID, rec := range layout {
		if rec.Section < 0 || rec.Section >= model.SectionCount {
			return s.wrap("StoreLayoutRecommendations",
				fmt.Errorf("invalid section value %d for product %s: must be in [0, %d)",
					rec.Section, productID, model.SectionCount))
		}
		productIDs = append(productIDs, productID)
	}
	sort.Strings(productIDs)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return s.wrap("StoreLayoutRecommendations", err)
	}
	defer tx.Rollback()

	for _, productID := range productIDs {
		rec := layout[productID]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO layout_recommendations (product_id, section, priority, sub_category)
			VALUES ($1, $2, $3, $4)
		`, productID, rec.Section, rec.Priority, rec.SubCategory); err != nil {
			return s.wrap("StoreLayoutRecommendations", err)
		}
	}

	return s.wrap("StoreLayoutRecommendations", tx.Commit())
}

// FetchCombinedStoreData returns the most recent analysis result joined
// with the current layout recommendations.
func (s *PostgresStore) FetchCombinedStoreData(ctx context.Context) (*CombinedStoreData, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT lr.product_id, lr.section, lr.priority, lr.sub_category, p.product_name
		FROM layout_recommendations lr
		JOIN products p ON p.product_id = lr.product_id
		ORDER BY lr.section, lr.priority
	`)
	if err != nil {
		return nil, s.wrap("FetchCombinedStoreData", err)
	}
	defer rows.Close()

	layout := make(map[string]LayoutEntry)
	for rows.Next() {
		var (
			productID, subCategory, productName string
			section                             int
			priority                            model.Priority
		)
		if err := rows.Scan(&productID, &section, &priority, &subCategory, &productName); err != nil {
			return nil, s.wrap("FetchCombinedStoreData", err)
		}
		layout[productID] = LayoutEntry{
			Section:     section,
			Priority:    priority,
			SubCategory: subCategory,
			Products:    []ProductRef{{Name: productName, ID: productID}},
		}
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("FetchCombinedStoreData", err)
	}

	combined := &CombinedStoreData{Layout: layout}

	var metrics, subCategories, topProducts []byte
	err = s.db.QueryRowContext(ctx, `
		SELECT metrics, sub_category_analysis, top_products
		FROM analysis_results
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&metrics, &subCategories, &topProducts)
	if err == sql.ErrNoRows {
		return combined, nil
	}
	if err != nil {
		return nil, s.wrap("FetchCombinedStoreData", err)
	}

	if err := json.Unmarshal(metrics, &combined.Analytics.Metrics); err != nil {
		return nil, s.wrap("FetchCombinedStoreData", err)
	}
	if err := json.Unmarshal(subCategories, &combined.Analytics.SubCategoryAnalysis); err != nil {
		return nil, s.wrap("FetchCombinedStoreData", err)
	}
	if err := json.Unmarshal(topProducts, &combined.Analytics.TopProducts); err != nil {
		return nil, s.wrap("FetchCombinedStoreData", err)
	}

	return combined, nil
}

// AddFileHistory appends a pending entry to the upload audit log
func (s *PostgresStore) AddFileHistory(ctx context.Context, filename string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO file_history (filename, status)
		VALUES ($1, $2)
	`, filename, model.StatusPending)
	return s.wrap("AddFileHistory", err)
}

// UpdateFileStatus advances the lifecycle of an upload's audit entry
func (s *PostgresStore) UpdateFileStatus(ctx context.Context, filename string, status model.FileStatus, errorMessage string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var message *string
	if errorMessage != "" {
		message = &errorMessage
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE file_history
		SET status = $1, error_message = $2
		WHERE id = (
			SELECT id FROM file_history
			WHERE filename = $3
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		)
	`, status, message, filename)
	return s.wrap("UpdateFileStatus", err)
}

// ClearPreviousData deletes all derived rows in one transaction. The
// file-history audit log is exempt.
func (s *PostgresStore) ClearPreviousData(ctx context.Context) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return s.wrap("ClearPreviousData", err)
	}
	defer tx.Rollback()

	for _, table := range derivedTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return s.wrap("ClearPreviousData", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return s.wrap("ClearPreviousData", err)
	}

	s.logger.Info("Cleared previous derived data", zap.Strings("tables", derivedTables))
	return nil
}
