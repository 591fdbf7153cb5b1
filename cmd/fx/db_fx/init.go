package dbfx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"phongtro/internal/infra"
)

var Module = fx.Options(
	fx.Provide(
		provideDB,
		infra.NewTxManager,
	),
	fx.Invoke(registerClose),
)

func provideDB() *gorm.DB {
	return infra.InitPostgresql()
}

func registerClose(lc fx.Lifecycle, db *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			infra.ClosePostgresql(db)
			return nil
		},
	})
}
