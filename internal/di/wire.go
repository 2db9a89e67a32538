//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"
	"github.com/ybird-labs/senate-insight-lab/pkg/config"
	"github.com/ybird-labs/senate-insight-lab/pkg/server"
)

// InitializeApp wires the full application graph from configuration.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideCache,
		ProvideLimiter,
		ProvideCongressData,
		ProvideDisclosureData,
		ProvideMarketData,
		ProvideMetrics,
		ProvideDetector,
		ProvideAlertGenerator,
		ProvideAlertStore,
		ProvideAlertPublisher,
		ProvidePipeline,
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
