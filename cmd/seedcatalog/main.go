package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/informedchoice/backend/internal/infrastructure/catalog"
	"github.com/informedchoice/backend/internal/infrastructure/usda"
)

var (
	apiKey  string
	baseURL string
	outFile string
	pages   int
)

var rootCmd = &cobra.Command{
	Use:   "seedcatalog <query> [query...]",
	Short: "Build a catalog seed file from USDA FoodData Central",
	Long: "seedcatalog searches the FoodData Central branded foods dataset for\n" +
		"each query and writes the combined, deduplicated results as the JSON\n" +
		"seed file the server loads into an empty catalog.",
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "FoodData Central API key (fallback: INFORMEDCHOICE_USDA_API_KEY)")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "FoodData Central base URL override")
	rootCmd.Flags().StringVar(&outFile, "out", "seeds.json", "Output seed file path")
	rootCmd.Flags().IntVar(&pages, "pages", 1, "Pages to fetch per query (up to 200 foods per page)")
}

func run(cmd *cobra.Command, args []string) error {
	key := apiKey
	if key == "" {
		key = os.Getenv("INFORMEDCHOICE_USDA_API_KEY")
	}
	if key == "" {
		return fmt.Errorf("missing API key: pass --api-key or set INFORMEDCHOICE_USDA_API_KEY")
	}
	if pages < 1 {
		pages = 1
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	client := usda.NewClient(usda.Config{APIKey: key, BaseURL: baseURL}, logger)

	seen := make(map[int64]bool)
	var seeds []catalog.SeedProduct

	for _, query := range args {
		for page := 1; page <= pages; page++ {
			result, err := client.SearchBranded(ctx, query, page)
			if err != nil {
				return fmt.Errorf("search %q page %d: %w", query, page, err)
			}

			added := 0
			for _, seed := range usda.ToSeedProducts(result.Foods) {
				if seen[seed.FdcID] {
					continue
				}
				seen[seed.FdcID] = true
				seeds = append(seeds, seed)
				added++
			}

			logger.Info("page fetched",
				zap.String("query", query),
				zap.Int("page", page),
				zap.Int("added", added),
				zap.Int("total", len(seeds)))

			if result.TotalPages > 0 && page >= result.TotalPages {
				break
			}
		}
	}

	// Stable output regardless of query order.
	sort.Slice(seeds, func(i, j int) bool { return seeds[i].FdcID < seeds[j].FdcID })

	data, err := json.MarshalIndent(seeds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode seed file: %w", err)
	}
	if err := os.WriteFile(outFile, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outFile, err)
	}

	logger.Info("seed file written", zap.String("file", outFile), zap.Int("products", len(seeds)))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
