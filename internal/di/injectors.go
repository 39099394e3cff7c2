//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"streakd/internal"
	"streakd/internal/controllers"
	"streakd/internal/platforms"
	"streakd/internal/providers"
	"streakd/internal/services"
	"streakd/internal/statistic"
	"streakd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		platforms.NewRegistry,
		services.NewActivityService,
		services.NewRefreshService,
		statistic.NewZstdCompressor,
		statistic.NewFileManager,
		statistic.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}
