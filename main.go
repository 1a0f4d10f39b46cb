package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"go-shop/config"
	"go-shop/controllers"
	"go-shop/repository"
	"go-shop/routes"
	"go-shop/services"
	"go-shop/tokens"
	"go-shop/utils"
)

func main() {
	godotenv.Load()

	development := os.Getenv("APP_ENV") != "production"
	log, err := utils.NewLogger(development)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	mongoClient, err := utils.ConnectDB(cfg.MongoDB)
	if err != nil {
		log.Fatal("connect mongodb", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.MongoDB.Database)

	redisClient, err := utils.ConnectRedis(cfg.Redis)
	if err != nil {
		log.Fatal("connect redis", zap.Error(err))
	}
	defer redisClient.Close()

	userRepo := repository.NewMongoUserRepo(db)
	roleRepo := repository.NewMongoRoleRepo(db)
	productRepo := repository.NewMongoProductRepo(db)
	orderRepo := repository.NewMongoOrderRepo(db)
	paymentTypeRepo := repository.NewMongoPaymentTypeRepo(db)
	notificationRepo := repository.NewMongoNotificationRepo(db)

	tokenService := tokens.NewService(
		cfg.Token.AccessSecret,
		cfg.Token.RefreshSecret,
		cfg.Token.AccessExpire,
		cfg.Token.RefreshExpire,
		tokens.NewRedisBlacklist(redisClient),
	)

	notifier := services.NewNotificationService(
		notificationRepo, userRepo, roleRepo,
		&services.LogPushSender{Log: log}, log,
	)
	inventory := services.NewInventoryService(productRepo, log)
	orderService := services.NewOrderService(orderRepo, paymentTypeRepo, inventory, notifier, log)
	paymentService := services.NewPaymentService(cfg.VNPay, orderRepo, notifier, log)
	roleService := services.NewRoleService(roleRepo, log)
	authService := services.NewAuthService(
		userRepo, roleRepo, tokenService,
		utils.NewEmailService(cfg.Email),
		services.NewGoogleVerifier(), services.NewFacebookVerifier(),
		cfg.Reset, log,
	)

	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := services.Seed(ctx, userRepo, roleRepo, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, log)
		cancel()
		if err != nil {
			log.Fatal("seed system roles", zap.Error(err))
		}
	}

	router := routes.New(routes.Controllers{
		Auth:          controllers.NewAuthController(authService, cfg.Token.RefreshExpire),
		Orders:        controllers.NewOrderController(orderService),
		Roles:         controllers.NewRoleController(roleService),
		Notifications: controllers.NewNotificationController(notifier),
		Payment:       controllers.NewPaymentController(paymentService),
	}, tokenService, log)

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(router)

	addr := ":" + cfg.Port
	log.Info("server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
