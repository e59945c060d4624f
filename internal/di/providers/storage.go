package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/litswap/litswap-server/internal/config"
	"github.com/litswap/litswap-server/internal/logger"
	"github.com/litswap/litswap-server/internal/media/images"
)

// ProvideImageStorage provides the book photo storage.
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(cfg.Data.BasePath)
	if err != nil {
		return nil, fmt.Errorf("book photo storage: %w", err)
	}

	log.Info("Image storage initialized")

	return storage, nil
}
