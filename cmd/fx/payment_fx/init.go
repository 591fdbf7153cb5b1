package paymentfx

import (
	"log"
	"os"

	"go.uber.org/fx"

	"phongtro/internal/api/controllers"
	"phongtro/internal/infra"
	"phongtro/internal/repositories"
	"phongtro/internal/services"
)

var Module = fx.Provide(
	repositories.NewTopUpRepository,
	providePaymentService,
	controllers.NewPaymentController,
)

func providePaymentService(
	topups repositories.ITopUpRepository,
	wallets services.WalletServiceInterface,
	txManager infra.TxManager,
) services.PaymentServiceInterface {
	cfg := services.PayOSConfig{
		ClientID:     os.Getenv("PAYOS_CLIENT_ID"),
		ApiKey:       os.Getenv("PAYOS_API_KEY"),
		ChecksumKey:  os.Getenv("PAYOS_CHECKSUM_KEY"),
		ReturnURL:    os.Getenv("PAYOS_RETURN_URL"),
		CancelURL:    os.Getenv("PAYOS_CANCEL_URL"),
		ProviderName: "payos",
	}

	instance, err := services.NewPaymentService(topups, wallets, txManager, cfg)
	if err != nil {
		log.Printf("Error initializing PaymentService: %v", err)
	}

	return instance
}
