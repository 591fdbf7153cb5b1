package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	accountfx "phongtro/cmd/fx/account_fx"
	dbfx "phongtro/cmd/fx/db_fx"
	paymentfx "phongtro/cmd/fx/payment_fx"
	postfx "phongtro/cmd/fx/post_fx"
	pricingfx "phongtro/cmd/fx/pricing_fx"
	schedulerfx "phongtro/cmd/fx/scheduler_fx"
	statsfx "phongtro/cmd/fx/stats_fx"
	walletfx "phongtro/cmd/fx/wallet_fx"
	"phongtro/internal/api/controllers"
	"phongtro/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded")
	}

	app := fx.New(
		dbfx.Module,
		pricingfx.Module,
		accountfx.Module,
		walletfx.Module,
		postfx.Module,
		paymentfx.Module,
		statsfx.Module,
		schedulerfx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Println("Starting HTTP server at ${PORT}")
				if err := engine.Run(":" + os.Getenv("PORT")); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	accountController *controllers.AccountController,
	postController *controllers.PostController,
	walletController *controllers.WalletController,
	paymentController *controllers.PaymentController,
	adminController *controllers.AdminController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, accountController, postController, walletController, paymentController, adminController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	accountController *controllers.AccountController,
	postController *controllers.PostController,
	walletController *controllers.WalletController,
	paymentController *controllers.PaymentController,
	adminController *controllers.AdminController) {

	accountsGroup := r.Group("/accounts")
	accountsGroup.POST("/register", accountController.Register)
	accountsGroup.POST("/login", accountController.Login)

	r.GET("/plans", postController.ListPlans)
	r.POST("/payments/webhook", paymentController.HandleWebhook)

	postsGroup := r.Group("/posts")
	postsGroup.GET("", postController.ListPosts)
	postsGroup.GET("/cost-preview", postController.PreviewCost)
	postsGroup.GET("/:id", postController.GetPost)

	ownedGroup := r.Group("/posts")
	ownedGroup.Use(middleware.JWTAuthMiddleware())
	ownedGroup.POST("", postController.CreatePost)
	ownedGroup.GET("/mine", postController.ListMyPosts)
	ownedGroup.POST("/:id/change-plan", postController.ChangePlan)
	ownedGroup.POST("/:id/extend", postController.ExtendPlan)
	ownedGroup.POST("/:id/auto-renew", postController.SetAutoRenew)
	ownedGroup.POST("/:id/toggle-availability", postController.ToggleAvailability)

	walletGroup := r.Group("/wallet")
	walletGroup.Use(middleware.JWTAuthMiddleware())
	walletGroup.GET("", walletController.GetWallet)
	walletGroup.GET("/transactions", walletController.ListTransactions)
	walletGroup.POST("/topup", paymentController.CreateTopUp)

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"))
	adminGroup.POST("/posts/:id/approve", adminController.ApprovePost)
	adminGroup.POST("/posts/:id/reject", adminController.RejectPost)
	adminGroup.GET("/stats", adminController.GetStats)
}
