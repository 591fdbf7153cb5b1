package statsfx

import (
	"go.uber.org/fx"

	"phongtro/internal/api/controllers"
	"phongtro/internal/services"
)

var Module = fx.Provide(
	services.NewStatsService,
	controllers.NewAdminController,
)
