package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/informedchoice/backend/internal/domain"
)

// neutralNutritionExplanation accompanies the default score whenever risk
// analysis is unavailable.
const neutralNutritionExplanation = "nutrition data unavailable"

// NeutralNutritionScore is the default returned when the risk capability
// times out, is unconfigured, or fails.
func NeutralNutritionScore() domain.ScoreResult {
	return domain.ScoreResult{Score: 3, Explanation: neutralNutritionExplanation}
}

// RiskAnalyzerConfig holds tuning for the risk analysis boundary.
type RiskAnalyzerConfig struct {
	// Timeout bounds one capability call.
	Timeout time.Duration
	// CacheTTL controls how long successful findings are memoized.
	CacheTTL time.Duration
}

// riskFindings bundles the capability outputs for caching.
type riskFindings struct {
	Annotations []domain.HealthRiskAnnotation
	Nutrition   domain.ScoreResult
}

// RiskAnalyzer calls the risk/nutrition capability under a bounded deadline
// and converts every failure into the degraded result. It never fails the
// surrounding request.
type RiskAnalyzer struct {
	capability domain.RiskCapability
	cache      domain.CacheRepository
	timeout    time.Duration
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewRiskAnalyzer creates a risk analyzer with dependencies. Pass
// domain.NoopRiskCapability when no capability is configured.
func NewRiskAnalyzer(
	capability domain.RiskCapability,
	cache domain.CacheRepository,
	config RiskAnalyzerConfig,
	logger *zap.Logger,
) *RiskAnalyzer {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &RiskAnalyzer{
		capability: capability,
		cache:      cache,
		timeout:    timeout,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Analyze runs the capability on the resolved ingredient list under the
// analyzer's own deadline. On timeout, capability absence, or any downstream
// failure it returns empty annotations and the neutral nutrition score.
// Successful findings are memoized per catalog id; synthesized products
// without an id are analyzed but never cached.
func (a *RiskAnalyzer) Analyze(ctx context.Context, fdcID int64, ingredients []string) ([]domain.HealthRiskAnnotation, domain.ScoreResult) {
	if len(ingredients) == 0 {
		return []domain.HealthRiskAnnotation{}, NeutralNutritionScore()
	}

	cacheKey := fmt.Sprintf("risk:%d", fdcID)
	if fdcID > 0 {
		if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
			if findings, ok := cached.(*riskFindings); ok {
				a.logger.Debug("risk findings served from cache", zap.Int64("fdc_id", fdcID))
				return findings.Annotations, findings.Nutrition
			}
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	annotations, nutrition, err := a.capability.Analyze(callCtx, ingredients)
	if err != nil {
		a.logger.Warn("risk analysis degraded",
			zap.Int64("fdc_id", fdcID),
			zap.Error(err))
		return []domain.HealthRiskAnnotation{}, NeutralNutritionScore()
	}

	if annotations == nil {
		annotations = []domain.HealthRiskAnnotation{}
	}
	if nutrition.Score < 1 || nutrition.Score > 5 {
		nutrition = NeutralNutritionScore()
	}

	if fdcID > 0 {
		findings := &riskFindings{Annotations: annotations, Nutrition: nutrition}
		if err := a.cache.Set(ctx, cacheKey, findings, a.cacheTTL); err != nil {
			a.logger.Debug("risk findings not cached", zap.Int64("fdc_id", fdcID), zap.Error(err))
		}
	}

	return annotations, nutrition
}
