package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"

	"github.com/Jossyboydgenius/Real-Estate-Booking/config"
	"github.com/Jossyboydgenius/Real-Estate-Booking/routes"
	"github.com/Jossyboydgenius/Real-Estate-Booking/storage"
	"github.com/Jossyboydgenius/Real-Estate-Booking/utils"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		log.Fatalf("failed to load configuration: %v", cfgErr)
	}

	storage.InitializeDB(cfg.DBConnectionString)
	storage.InitializeRedis(cfg.RedisURL, cfg.ResidencyCacheTTL)

	httpClient := utils.NewHTTPClient(cfg.HTTPClientTimeout)
	jwtVerifier, verifierErr := utils.NewJWTVerifier(
		cfg.Auth0IssuerBaseURL, cfg.Auth0Audience, cfg.JWKSRefreshInterval, httpClient)
	if verifierErr != nil {
		log.Fatalf("failed to initialize jwt verifier: %v", verifierErr)
	}
	defer jwtVerifier.Close()

	app := iris.New()
	app.Validator = utils.Validate

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", jwtVerifier.Verify, routes.CreateUser)
		user.Post("/bookVisit/{id:uint}", jwtVerifier.Verify, routes.BookVisit)
		user.Post("/allBookings", routes.GetAllBookings)
		user.Post("/removeBooking/{id:uint}", jwtVerifier.Verify, routes.CancelBooking)
		user.Post("/toFav/{rid:uint}", jwtVerifier.Verify, routes.ToFav)
		user.Post("/allFav", jwtVerifier.Verify, routes.GetAllFav)
	}

	residency := app.Party("/api/residency")
	{
		residency.Post("/create", jwtVerifier.Verify, routes.CreateResidency)
		residency.Get("/allresd", routes.GetAllResidencies)
		residency.Get("/{id:uint}", routes.GetResidency)
	}

	payments := app.Party("/api/payments")
	{
		payments.Post("/create-intent", routes.CreatePaymentIntent)
		payments.Post("/process", routes.ProcessPayment)
		payments.Post("/webhook", routes.PaymentWebhook)
		payments.Get("/user/{userId:uint}", routes.GetUserPayments)
		payments.Get("/{id:uint}", routes.GetPaymentByID)
	}

	notifications := app.Party("/api/notifications")
	{
		notifications.Get("/", routes.GetAllNotifications)
		notifications.Post("/{id:uint}/read", routes.MarkNotificationRead)
	}

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
