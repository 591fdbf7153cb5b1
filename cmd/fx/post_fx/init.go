package postfx

import (
	"go.uber.org/fx"

	"phongtro/internal/api/controllers"
	"phongtro/internal/repositories"
	"phongtro/internal/services"
)

var Module = fx.Provide(
	repositories.NewPostRepository,
	services.NewPostService,
	controllers.NewPostController,
)
