package providers

import (
	"github.com/samber/do/v2"

	"github.com/litswap/litswap-server/internal/config"
	"github.com/litswap/litswap-server/internal/logger"
	"github.com/litswap/litswap-server/internal/recommend"
)

// ProvideRanker provides the discovery feed ranker. With no ranking service
// configured the feed falls back to uniform random selection.
func ProvideRanker(i do.Injector) (recommend.Ranker, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Recommend.URL == "" {
		log.Info("No recommendation service configured, discovery uses random selection")
		return recommend.NoopRanker{}, nil
	}

	log.Info("Recommendation client initialized",
		"url", cfg.Recommend.URL,
		"timeout", cfg.Recommend.Timeout,
		"max_results", cfg.Recommend.MaxResults,
	)

	return recommend.NewClient(cfg.Recommend.URL, cfg.Recommend.Timeout), nil
}
