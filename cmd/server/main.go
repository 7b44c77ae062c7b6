package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	addressrepo "github.com/ScriptsHub07/venda3/internal/address/repository"
	"github.com/ScriptsHub07/venda3/internal/auth"
	cartcache "github.com/ScriptsHub07/venda3/internal/cart/cache"
	cartrepo "github.com/ScriptsHub07/venda3/internal/cart/repository"
	cartservice "github.com/ScriptsHub07/venda3/internal/cart/service"
	catalogrepo "github.com/ScriptsHub07/venda3/internal/catalog/repository"
	checkoutservice "github.com/ScriptsHub07/venda3/internal/checkout/service"
	couponrepo "github.com/ScriptsHub07/venda3/internal/coupon/repository"
	"github.com/ScriptsHub07/venda3/internal/events"
	h "github.com/ScriptsHub07/venda3/internal/http"
	"github.com/ScriptsHub07/venda3/internal/notification"
	orderrepo "github.com/ScriptsHub07/venda3/internal/order/repository"
	"github.com/ScriptsHub07/venda3/internal/payment/pix"
	paymentservice "github.com/ScriptsHub07/venda3/internal/payment/service"
	"github.com/ScriptsHub07/venda3/internal/storage"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	HTTPPort string

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	MigrationsDir    string

	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string

	EfiClientID     string
	EfiClientSecret string
	EfiSandbox      bool
	WebhookURL      string
	WebhookSecret   string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	UploadDir string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	SessionLifetime time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getEnv("POSTGRES_DB", "store"),
		MigrationsDir:    getEnv("MIGRATIONS_DIR", "migrations"),

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "cartdb"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),

		EfiClientID:     getEnv("EFI_CLIENT_ID", ""),
		EfiClientSecret: getEnv("EFI_CLIENT_SECRET", ""),
		EfiSandbox:      getEnv("EFI_SANDBOX", "true") == "true",
		WebhookURL:      getEnv("WEBHOOK_URL", ""),
		WebhookSecret:   getEnv("WEBHOOK_SECRET", ""),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "pedidos@hypex.com.br"),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		SessionLifetime: 7 * 24 * time.Hour,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := loadConfig()
	ctx := context.Background()

	// Postgres: orders repository owns the connection and migrations, the
	// other relational repositories share it.
	orders, err := orderrepo.NewRepository(&orderrepo.Credentials{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DBName:   cfg.PostgresDB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	db := orders.DB()
	defer db.Close()

	if err := orders.RunMigrations(cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Connected to postgres at %s:%d", cfg.PostgresHost, cfg.PostgresPort)

	products := catalogrepo.NewPostgresRepository(db)
	coupons := couponrepo.NewPostgresRepository(db)
	addresses := addressrepo.NewPostgresRepository(db)
	users := auth.NewPostgresRepository(db)

	// MongoDB holds the cart snapshots
	mongoDB, err := cartrepo.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(ctx)
	carts := cartrepo.NewMongoRepository(mongoDB)
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	cache := cartcache.NewRedisCache(redisClient)
	cartSvc := cartservice.NewCartService(carts, cache)

	if cfg.WebhookSecret == "" {
		log.Fatal("WEBHOOK_SECRET is required")
	}

	pixClient, err := pix.NewClient(pix.Config{
		ClientID:     cfg.EfiClientID,
		ClientSecret: cfg.EfiClientSecret,
		Sandbox:      cfg.EfiSandbox,
		WebhookURL:   cfg.WebhookURL,
	})
	if err != nil {
		log.Fatalf("Failed to configure pix client: %v", err)
	}

	paymentSvc := paymentservice.NewPaymentService(orders, users, addresses, pixClient)
	checkoutSvc := checkoutservice.NewCheckoutService(cartSvc, products, coupons, addresses, orders, paymentSvc)

	authSvc := auth.NewService(users)

	files, err := storage.NewDiskStore(cfg.UploadDir, "/files")
	if err != nil {
		log.Fatalf("Failed to set up file storage: %v", err)
	}

	sessions := scs.New()
	sessions.Lifetime = cfg.SessionLifetime
	sessions.Cookie.HttpOnly = true

	authMW := h.NewAuth(sessions, authSvc)

	router := h.NewRouter(h.RouterDeps{
		Sessions:      sessions,
		Auth:          authMW,
		AuthHandler:   h.NewAuthHandler(authSvc, authMW),
		Catalog:       h.NewCatalogHandler(products, cfg.RequestTimeout),
		Cart:          h.NewCartHandler(cartSvc, products, cfg.RequestTimeout),
		Addresses:     h.NewAddressHandler(addresses, cfg.RequestTimeout),
		Checkout:      h.NewCheckoutHandler(checkoutSvc, cfg.RequestTimeout),
		Orders:        h.NewOrderHandler(orders, cfg.RequestTimeout),
		Payments:      h.NewPaymentHandler(paymentSvc, cfg.WebhookSecret, cfg.RequestTimeout),
		AdminProducts: h.NewAdminProductsHandler(products, files, cfg.RequestTimeout),
		AdminCoupons:  h.NewAdminCouponsHandler(coupons, cfg.RequestTimeout),
		AdminOrders:   h.NewAdminOrdersHandler(orders, cfg.RequestTimeout),

		FilesDir:       files.Dir(),
		RequestTimeout: cfg.RequestTimeout,
	})

	// Background workers: outbox poller feeds kafka, the consumer sends the
	// confirmation mail.
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	poller := events.NewOutboxPoller(orders, cfg.KafkaBrokers...)
	go poller.Run(workerCtx)
	defer poller.Close()

	mailer := notification.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	consumer := notification.NewConsumer(mailer, cfg.KafkaBrokers...)
	go consumer.Run(workerCtx)
	defer consumer.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Store server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	stopWorkers()

	log.Println("server exited")
}
