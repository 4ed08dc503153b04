package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/informedchoice/backend/internal/domain"
)

var testSeeds = []SeedProduct{
	{
		FdcID:       100,
		GtinUPC:     "0001112223334",
		Description: "Creamy Peanut Butter",
		BrandName:   "Jif",
		Category:    "Spreads",
		Ingredients: "Roasted Peanuts, Sugar; Salt",
		Retailer:    "walmart.com",
		URL:         "https://walmart.com/ip/100",
	},
	{
		FdcID:       200,
		GtinUPC:     "0005556667778",
		Description: "Crunchy Peanut Butter",
		BrandOwner:  "Hormel Foods",
		Category:    "Spreads",
		Ingredients: "Roasted Peanuts, Sugar, Hydrogenated Vegetable Oil",
	},
	{
		FdcID:       300,
		Description: "Oat Milk Original",
		BrandName:   "Oatly",
		Category:    "Plant Based Milk",
		Ingredients: "Water, Oats, Rapeseed Oil",
	},
}

func writeSeedFile(t *testing.T, dir string, seeds []SeedProduct) string {
	t.Helper()

	data, err := json.Marshal(seeds)
	require.NoError(t, err)

	path := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func newTestStore(t *testing.T, seeds []SeedProduct) *Store {
	t.Helper()

	dir := t.TempDir()
	store, err := NewStore(Config{
		Path:     filepath.Join(dir, "catalog.db"),
		SeedFile: writeSeedFile(t, dir, seeds),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestNewStore(t *testing.T) {
	store := newTestStore(t, testSeeds)

	assert.NotNil(t, store.db)
	assert.NotNil(t, store.index)
}

func TestGetByID(t *testing.T) {
	store := newTestStore(t, testSeeds)
	ctx := context.Background()

	t.Run("returns the product", func(t *testing.T) {
		product, err := store.GetByID(ctx, 100)

		require.NoError(t, err)
		assert.Equal(t, int64(100), product.FdcID)
		assert.Equal(t, "Creamy Peanut Butter", product.Name)
		assert.Equal(t, "Jif", product.Brand)
		assert.Equal(t, "Spreads", product.Category)
		assert.Equal(t, domain.SourceCatalog, product.Source)
		assert.Equal(t, "walmart.com", product.Retailer)
	})

	t.Run("splits ingredients on commas and semicolons in order", func(t *testing.T) {
		product, err := store.GetByID(ctx, 100)

		require.NoError(t, err)
		assert.Equal(t, []string{"Roasted Peanuts", "Sugar", "Salt"}, product.Ingredients)
	})

	t.Run("falls back to brand owner when brand name is empty", func(t *testing.T) {
		product, err := store.GetByID(ctx, 200)

		require.NoError(t, err)
		assert.Equal(t, "Hormel Foods", product.Brand)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := store.GetByID(ctx, 999)

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestGetByBarcode(t *testing.T) {
	store := newTestStore(t, testSeeds)
	ctx := context.Background()

	t.Run("returns the product for an exact barcode", func(t *testing.T) {
		product, err := store.GetByBarcode(ctx, "0001112223334")

		require.NoError(t, err)
		assert.Equal(t, int64(100), product.FdcID)
	})

	t.Run("unknown barcode is not found", func(t *testing.T) {
		_, err := store.GetByBarcode(ctx, "9999999999999")

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("no partial matching", func(t *testing.T) {
		_, err := store.GetByBarcode(ctx, "000111222")

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestStoreSearch(t *testing.T) {
	store := newTestStore(t, testSeeds)
	ctx := context.Background()

	t.Run("ranks name matches first", func(t *testing.T) {
		hits, err := store.Search(ctx, "peanut butter", 10)

		require.NoError(t, err)
		require.GreaterOrEqual(t, len(hits), 2)
		for _, hit := range hits[:2] {
			assert.Contains(t, hit.Product.Name, "Peanut Butter")
		}
	})

	t.Run("hits carry full products and positive scores", func(t *testing.T) {
		hits, err := store.Search(ctx, "oat milk", 10)

		require.NoError(t, err)
		require.NotEmpty(t, hits)
		assert.Equal(t, "Oat Milk Original", hits[0].Product.Name)
		assert.NotEmpty(t, hits[0].Product.Ingredients)
		assert.Greater(t, hits[0].Score, 0.0)
	})

	t.Run("respects the limit", func(t *testing.T) {
		hits, err := store.Search(ctx, "peanut", 1)

		require.NoError(t, err)
		assert.Len(t, hits, 1)
	})

	t.Run("descending score with ascending id tie-break", func(t *testing.T) {
		hits, err := store.Search(ctx, "peanut butter", 10)

		require.NoError(t, err)
		for i := 1; i < len(hits); i++ {
			prev, cur := hits[i-1], hits[i]
			if prev.Score == cur.Score {
				assert.Less(t, prev.Product.FdcID, cur.Product.FdcID)
			} else {
				assert.Greater(t, prev.Score, cur.Score)
			}
		}
	})

	t.Run("no matches is an empty result", func(t *testing.T) {
		hits, err := store.Search(ctx, "zzzzxxxyyy", 10)

		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("identical queries rank identically", func(t *testing.T) {
		first, err := store.Search(ctx, "peanut butter", 10)
		require.NoError(t, err)
		second, err := store.Search(ctx, "peanut butter", 10)
		require.NoError(t, err)

		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].Product.FdcID, second[i].Product.FdcID)
		}
	})
}

func TestStoreSuggest(t *testing.T) {
	store := newTestStore(t, testSeeds)
	ctx := context.Background()

	t.Run("prefix queries surface suggestions", func(t *testing.T) {
		suggestions, err := store.Suggest(ctx, "pean", 10)

		require.NoError(t, err)
		require.NotEmpty(t, suggestions)
		assert.Contains(t, suggestions[0].Name, "Peanut")
		assert.NotZero(t, suggestions[0].FdcID)
	})

	t.Run("suggestions carry display fields", func(t *testing.T) {
		suggestions, err := store.Suggest(ctx, "oat milk", 10)

		require.NoError(t, err)
		require.NotEmpty(t, suggestions)
		assert.Equal(t, "Oat Milk Original", suggestions[0].Name)
		assert.Equal(t, "Oatly", suggestions[0].Brand)
		assert.Equal(t, "Plant Based Milk", suggestions[0].Category)
	})

	t.Run("respects the limit", func(t *testing.T) {
		suggestions, err := store.Suggest(ctx, "peanut", 1)

		require.NoError(t, err)
		assert.Len(t, suggestions, 1)
	})

	t.Run("brand matches count", func(t *testing.T) {
		suggestions, err := store.Suggest(ctx, "oatly", 10)

		require.NoError(t, err)
		require.NotEmpty(t, suggestions)
		assert.Equal(t, int64(300), suggestions[0].FdcID)
	})
}

func TestSeedIfEmpty(t *testing.T) {
	t.Run("populated table is left untouched", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "catalog.db")
		seedPath := writeSeedFile(t, dir, testSeeds)

		store, err := NewStore(Config{Path: dbPath, SeedFile: seedPath}, zap.NewNop())
		require.NoError(t, err)
		require.NoError(t, store.Close())

		// Reopen with a different seed file; the original rows must survive.
		otherSeed := writeSeedFile(t, t.TempDir(), []SeedProduct{
			{FdcID: 900, Description: "Should Not Appear"},
		})
		store, err = NewStore(Config{Path: dbPath, SeedFile: otherSeed}, zap.NewNop())
		require.NoError(t, err)
		defer store.Close()

		ctx := context.Background()
		_, err = store.GetByID(ctx, 900)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)

		product, err := store.GetByID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, "Creamy Peanut Butter", product.Name)
	})

	t.Run("malformed seed file fails startup", func(t *testing.T) {
		dir := t.TempDir()
		seedPath := filepath.Join(dir, "seed.json")
		require.NoError(t, os.WriteFile(seedPath, []byte("not json"), 0o600))

		_, err := NewStore(Config{
			Path:     filepath.Join(dir, "catalog.db"),
			SeedFile: seedPath,
		}, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestSplitIngredients(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want []string
	}{
		{"comma separated", "water, sugar, salt", []string{"water", "sugar", "salt"}},
		{"semicolon separated", "water; sugar; salt", []string{"water", "sugar", "salt"}},
		{"mixed separators", "water, sugar; salt", []string{"water", "sugar", "salt"}},
		{"drops empty segments", "water,, salt,", []string{"water", "salt"}},
		{"trims whitespace", "  water ,  salt  ", []string{"water", "salt"}},
		{"empty string", "", []string{}},
		{"single ingredient", "water", []string{"water"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, splitIngredients(tc.raw))
		})
	}
}
