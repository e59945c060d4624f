package providers

import (
	"github.com/samber/do/v2"

	"github.com/litswap/litswap-server/internal/catalog"
	"github.com/litswap/litswap-server/internal/config"
	"github.com/litswap/litswap-server/internal/logger"
)

// ProvideCatalogGateway provides the external book catalog client used to
// resolve listing metadata from an ISBN.
func ProvideCatalogGateway(i do.Injector) (catalog.Gateway, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, log.Logger)

	log.Info("Catalog client initialized",
		"base_url", cfg.Catalog.BaseURL,
		"timeout", cfg.Catalog.Timeout,
	)

	return client, nil
}
