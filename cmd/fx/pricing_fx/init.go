package pricingfx

import (
	"go.uber.org/fx"

	"phongtro/internal/services"
)

var Module = fx.Provide(
	services.LoadPricingTable,
	services.NewPricingService,
	services.NewApprovalGate,
)
