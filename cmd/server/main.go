package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/informedchoice/backend/config"
	httpDelivery "github.com/informedchoice/backend/internal/delivery/http"
	"github.com/informedchoice/backend/internal/domain"
	"github.com/informedchoice/backend/internal/infrastructure/cache"
	"github.com/informedchoice/backend/internal/infrastructure/catalog"
	"github.com/informedchoice/backend/internal/infrastructure/gemini"
	"github.com/informedchoice/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting informedchoice backend",
		zap.String("version", "0.1.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port))

	ctx := context.Background()

	// Product catalog: a missing path disables keyed and text lookups but the
	// server still runs on the synthesizer alone.
	var productCatalog domain.ProductCatalog = domain.NullCatalog{}
	if cfg.Catalog.Path != "" {
		store, err := catalog.NewStore(catalog.Config{
			Path:         cfg.Catalog.Path,
			PoolSize:     cfg.Catalog.PoolSize,
			QueryTimeout: cfg.Catalog.QueryTimeout,
			SeedFile:     cfg.Catalog.SeedFile,
		}, logger)
		if err != nil {
			logger.Fatal("failed to open product catalog", zap.Error(err))
		}
		defer store.Close()

		productCatalog = store
		logger.Info("product catalog ready", zap.String("path", cfg.Catalog.Path))
	} else {
		logger.Warn("catalog path not configured; catalog lookups disabled")
	}

	// Gemini capabilities: without an API key the risk analyzer degrades to
	// the neutral score and the fallback tier terminates in not-found.
	var riskCapability domain.RiskCapability = domain.NoopRiskCapability{}
	var synthesizer domain.FallbackSynthesizer = domain.NoopSynthesizer{}
	var urlFinder domain.URLFinder = domain.NoopURLFinder{}
	if cfg.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:            cfg.Gemini.APIKey,
			Model:             cfg.Gemini.Model,
			RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
		}, logger)
		if err != nil {
			logger.Fatal("failed to create gemini client", zap.Error(err))
		}

		riskCapability = geminiClient
		synthesizer = geminiClient
		urlFinder = geminiClient
		logger.Info("gemini capabilities ready", zap.String("model", cfg.Gemini.Model))
	} else {
		logger.Warn("gemini api key not configured; AI augmentation disabled")
	}

	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()

	// Initialize usecase layer
	resolver := usecase.NewResolver(productCatalog, synthesizer, usecase.ResolverConfig{
		MinScore: cfg.Resolver.MinScore,
	}, logger)

	riskAnalyzer := usecase.NewRiskAnalyzer(riskCapability, memoryCache, usecase.RiskAnalyzerConfig{
		Timeout:  cfg.Risk.Timeout,
		CacheTTL: cfg.Risk.CacheTTL,
	}, logger)

	autocompleteService := usecase.NewAutocompleteService(productCatalog, usecase.AutocompleteConfig{
		Limit: cfg.Autocomplete.Limit,
	}, logger)

	searchService := usecase.NewSearchService(resolver, riskAnalyzer, urlFinder,
		usecase.SearchServiceConfig{}, logger)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService, autocompleteService, logger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
