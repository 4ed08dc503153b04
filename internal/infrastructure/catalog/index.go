package catalog

import (
	"database/sql"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"

	"github.com/informedchoice/backend/internal/domain"
)

// searchFields are the indexed text fields ranked search runs over.
var searchFields = []string{"name", "brand", "category"}

// indexBatchSize bounds one indexing batch while loading the catalog.
const indexBatchSize = 500

// overfetch widens the candidate window so equal-score hits can be reordered
// by catalog id before truncation.
const overfetch = 10

// productDoc is the indexed shape of one catalog row. The document id is the
// catalog id rendered in decimal.
type productDoc struct {
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Category string `json:"category"`
}

// searchIndex wraps an in-memory full-text index over the catalog snapshot.
// Because the index never changes after startup, identical queries rank
// identically for the lifetime of the process.
type searchIndex struct {
	idx    bleve.Index
	logger *zap.Logger
}

// indexHit is one ranked result before materialization.
type indexHit struct {
	ID     int64
	Score  float64
	Fields map[string]interface{}
}

// buildIndex loads every catalog row into a new memory-only index.
func buildIndex(db *sql.DB, logger *zap.Logger) (*searchIndex, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT fdc_id, description, brand_name, brand_owner, branded_food_category FROM products")
	if err != nil {
		idx.Close()
		return nil, err
	}
	defer rows.Close()

	batch := idx.NewBatch()
	indexed := 0
	for rows.Next() {
		var (
			fdcID       int64
			description string

			brandName  sql.NullString
			brandOwner sql.NullString
			category   sql.NullString
		)
		if err := rows.Scan(&fdcID, &description, &brandName, &brandOwner, &category); err != nil {
			idx.Close()
			return nil, err
		}

		brand := brandName.String
		if brand == "" {
			brand = brandOwner.String
		}

		doc := productDoc{Name: description, Brand: brand, Category: category.String}
		if err := batch.Index(strconv.FormatInt(fdcID, 10), doc); err != nil {
			idx.Close()
			return nil, err
		}
		indexed++

		if batch.Size() >= indexBatchSize {
			if err := idx.Batch(batch); err != nil {
				idx.Close()
				return nil, err
			}
			batch = idx.NewBatch()
		}
	}
	if err := rows.Err(); err != nil {
		idx.Close()
		return nil, err
	}
	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			idx.Close()
			return nil, err
		}
	}

	logger.Info("catalog search index built", zap.Int("products", indexed))
	return &searchIndex{idx: idx, logger: logger}, nil
}

func (x *searchIndex) close() error {
	return x.idx.Close()
}

// search returns ranked catalog ids for a query.
func (x *searchIndex) search(q string, limit int) ([]indexHit, error) {
	return x.run(q, limit, false)
}

// suggest returns ranked typeahead suggestions built from stored fields.
func (x *searchIndex) suggest(q string, limit int) ([]domain.AutocompleteSuggestion, error) {
	hits, err := x.run(q, limit, true)
	if err != nil {
		return nil, err
	}

	suggestions := make([]domain.AutocompleteSuggestion, 0, len(hits))
	for _, hit := range hits {
		suggestions = append(suggestions, domain.AutocompleteSuggestion{
			FdcID:    hit.ID,
			Name:     fieldString(hit.Fields, "name"),
			Brand:    fieldString(hit.Fields, "brand"),
			Category: fieldString(hit.Fields, "category"),
		})
	}
	return suggestions, nil
}

// run executes one ranked query, overfetching so that equal-score hits sort
// deterministically by ascending catalog id before the cut to limit.
func (x *searchIndex) run(q string, limit int, withFields bool) ([]indexHit, error) {
	request := bleve.NewSearchRequestOptions(buildQuery(q), limit+overfetch, 0, false)
	if withFields {
		request.Fields = []string{"*"}
	}

	result, err := x.idx.Search(request)
	if err != nil {
		return nil, err
	}

	hits := make([]indexHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			x.logger.Warn("non-numeric document id in search index", zap.String("id", hit.ID))
			continue
		}
		hits = append(hits, indexHit{ID: id, Score: hit.Score, Fields: hit.Fields})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// buildQuery combines exact, prefix, and fuzzy matching across every indexed
// field. Exact term matches rank highest; prefix matches on the trailing
// token cover the word the user is still typing; fuzzy matches rank lowest
// and absorb small typos.
func buildQuery(q string) query.Query {
	normalized := strings.ToLower(strings.TrimSpace(q))
	tokens := strings.Fields(normalized)

	booleanQuery := bleve.NewBooleanQuery()
	for _, field := range searchFields {
		match := bleve.NewMatchQuery(normalized)
		match.SetField(field)
		match.SetBoost(3.0)
		booleanQuery.AddShould(match)

		if len(tokens) > 0 {
			prefix := bleve.NewPrefixQuery(tokens[len(tokens)-1])
			prefix.SetField(field)
			prefix.SetBoost(2.0)
			booleanQuery.AddShould(prefix)
		}

		for _, token := range tokens {
			fuzzy := bleve.NewFuzzyQuery(token)
			fuzzy.SetField(field)
			fuzzy.SetFuzziness(1)
			fuzzy.SetBoost(1.0)
			booleanQuery.AddShould(fuzzy)
		}
	}
	booleanQuery.SetMinShould(1)

	return booleanQuery
}

func fieldString(fields map[string]interface{}, key string) string {
	if value, ok := fields[key].(string); ok {
		return value
	}
	return ""
}
