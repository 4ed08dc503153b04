package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/informedchoice/backend/internal/domain"
)

// Config holds catalog store settings.
type Config struct {
	Path         string
	PoolSize     int
	QueryTimeout time.Duration
	SeedFile     string
}

// Store is the read-only product catalog: sqlite for keyed lookups, an
// in-memory full-text index over the same rows for ranked search.
type Store struct {
	db      *sql.DB
	index   *searchIndex
	timeout time.Duration
	logger  *zap.Logger
}

const productColumns = "fdc_id, gtin_upc, description, brand_name, brand_owner, branded_food_category, ingredients, retailer, url"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		fdc_id INTEGER PRIMARY KEY,
		gtin_upc TEXT,
		description TEXT NOT NULL,
		brand_name TEXT,
		brand_owner TEXT,
		branded_food_category TEXT,
		ingredients TEXT NOT NULL DEFAULT '',
		retailer TEXT,
		url TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_gtin_upc ON products(gtin_upc)`,
}

// NewStore opens the catalog database, applies the schema, seeds an empty
// table when a seed file is configured, and builds the search index from the
// resulting snapshot.
func NewStore(cfg Config, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 5
	}
	db.SetMaxOpenConns(poolSize)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog database: %w", err)
	}

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply catalog schema: %w", err)
		}
	}

	timeout := cfg.QueryTimeout
	if timeout == 0 {
		timeout = 3 * time.Second
	}

	store := &Store{db: db, timeout: timeout, logger: logger}

	if cfg.SeedFile != "" {
		if err := store.seedIfEmpty(cfg.SeedFile); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
	}

	index, err := buildIndex(db, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("build search index: %w", err)
	}
	store.index = index

	return store, nil
}

// Close releases the search index and the database handle.
func (s *Store) Close() error {
	if err := s.index.close(); err != nil {
		s.logger.Warn("closing search index", zap.Error(err))
	}
	return s.db.Close()
}

// GetByID looks up one product by catalog id.
func (s *Store) GetByID(ctx context.Context, fdcID int64) (*domain.Product, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := s.db.QueryRowContext(queryCtx,
		"SELECT "+productColumns+" FROM products WHERE fdc_id = ?", fdcID)
	return scanProduct(row)
}

// GetByBarcode looks up one product by its exact barcode.
func (s *Store) GetByBarcode(ctx context.Context, gtinUPC string) (*domain.Product, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := s.db.QueryRowContext(queryCtx,
		"SELECT "+productColumns+" FROM products WHERE gtin_upc = ? ORDER BY fdc_id LIMIT 1", gtinUPC)
	return scanProduct(row)
}

// Search runs ranked full-text search and materializes each hit from the
// products table. Hits come back ordered by descending relevance, ties
// broken by ascending catalog id.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	hits, err := s.index.search(query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	results := make([]domain.SearchHit, 0, len(hits))
	for _, hit := range hits {
		product, err := s.GetByID(ctx, hit.ID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				// Index and table disagree; skip rather than fail the search.
				s.logger.Warn("indexed product missing from catalog", zap.Int64("fdc_id", hit.ID))
				continue
			}
			return nil, err
		}
		results = append(results, domain.SearchHit{Product: *product, Score: hit.Score})
	}
	return results, nil
}

// Suggest returns ranked typeahead suggestions straight from the search
// index's stored fields.
func (s *Store) Suggest(ctx context.Context, query string, limit int) ([]domain.AutocompleteSuggestion, error) {
	suggestions, err := s.index.suggest(query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return suggestions, nil
}

// scanProduct maps one products row onto the domain entity.
func scanProduct(row *sql.Row) (*domain.Product, error) {
	var (
		fdcID       int64
		description string
		ingredients string

		gtinUPC    sql.NullString
		brandName  sql.NullString
		brandOwner sql.NullString
		category   sql.NullString
		retailer   sql.NullString
		url        sql.NullString
	)

	err := row.Scan(&fdcID, &gtinUPC, &description, &brandName, &brandOwner,
		&category, &ingredients, &retailer, &url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	brand := brandName.String
	if brand == "" {
		brand = brandOwner.String
	}

	return &domain.Product{
		FdcID:       fdcID,
		GtinUPC:     gtinUPC.String,
		Name:        description,
		Brand:       brand,
		Category:    category.String,
		Ingredients: splitIngredients(ingredients),
		Source:      domain.SourceCatalog,
		Retailer:    retailer.String,
		URL:         url.String,
	}, nil
}

// ingredientSeparator splits raw catalog ingredient strings.
var ingredientSeparator = regexp.MustCompile(`[,;]`)

// splitIngredients turns a raw ingredient string into an ordered list,
// dropping empty segments.
func splitIngredients(raw string) []string {
	parts := ingredientSeparator.Split(raw, -1)
	ingredients := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			ingredients = append(ingredients, part)
		}
	}
	return ingredients
}
