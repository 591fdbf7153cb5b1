package schedulerfx

import (
	"context"

	"go.uber.org/fx"

	"phongtro/internal/services"
	mem "phongtro/pkg/memcache"
)

var Module = fx.Options(
	fx.Provide(
		mem.NewRenewalGuard,
		services.NewRenewalScheduler,
	),
	fx.Invoke(registerScheduler),
)

func registerScheduler(lc fx.Lifecycle, scheduler *services.RenewalScheduler) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			scheduler.Start(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			// Finish the in-flight post, skip starting new ones.
			scheduler.Stop()
			cancel()
			return nil
		},
	})
}
