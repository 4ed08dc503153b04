package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// SeedProduct is one catalog row in a JSON seed file. The seedcatalog
// command produces these; seedIfEmpty consumes them.
type SeedProduct struct {
	FdcID       int64  `json:"fdc_id"`
	GtinUPC     string `json:"gtin_upc"`
	Description string `json:"description"`
	BrandName   string `json:"brand_name"`
	BrandOwner  string `json:"brand_owner"`
	Category    string `json:"branded_food_category"`
	Ingredients string `json:"ingredients"`
	Retailer    string `json:"retailer"`
	URL         string `json:"url"`
}

// seedIfEmpty loads the seed file into the products table when the table has
// no rows yet, so a demo deployment is self-contained. A populated table is
// left untouched.
func (s *Store) seedIfEmpty(path string) error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var seeds []SeedProduct
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("parse seed file %s: %w", path, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO products
		(fdc_id, gtin_upc, description, brand_name, brand_owner, branded_food_category, ingredients, retailer, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range seeds {
		if _, err := stmt.Exec(p.FdcID, p.GtinUPC, p.Description, p.BrandName,
			p.BrandOwner, p.Category, p.Ingredients, p.Retailer, p.URL); err != nil {
			return fmt.Errorf("insert seed product %d: %w", p.FdcID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("catalog seeded", zap.Int("products", len(seeds)), zap.String("file", path))
	return nil
}
