package main // Entry point package

import (
	"log"  // Logging library
	"time" // Gateway timeout construction

	"github.com/joho/godotenv" // Loads .env files in development
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/checkout"     // Checkout orchestration
	"github.com/iliyamo/hotel-room-booking/internal/config"       // Internal config loader
	"github.com/iliyamo/hotel-room-booking/internal/database"     // MySQL connection
	"github.com/iliyamo/hotel-room-booking/internal/handler"      // HTTP handlers
	"github.com/iliyamo/hotel-room-booking/internal/middleware"   // Cache and rate limit middlewares
	"github.com/iliyamo/hotel-room-booking/internal/notification" // Broker publisher and consumer side
	"github.com/iliyamo/hotel-room-booking/internal/payment"      // Payment gateway client
	"github.com/iliyamo/hotel-room-booking/internal/queue"        // Broker consumer
	"github.com/iliyamo/hotel-room-booking/internal/repository"   // DB repositories
	"github.com/iliyamo/hotel-room-booking/internal/router"       // Internal router setup
)

func main() {
	// Load .env when present; in production the variables come from the
	// environment directly and a missing file is not an error.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the token-bucket rate limiter.
	// A nil client disables both without blocking startup.
	rdb := config.NewRedisClient()

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	hotels := repository.NewHotelRepo(db)
	categories := repository.NewCategoryRepo(db)
	rooms := repository.NewRoomRepo(db)
	carts := repository.NewCartRepo(db)
	bookings := repository.NewBookingRepo(db)

	// Checkout service: SQL adapters over the repositories, the payment
	// gateway client and the broker publisher.
	store := checkout.NewSQLStore(carts, categories, rooms, bookings, hotels, users)
	uow := checkout.NewSQLUnitOfWork(db, checkout.ParseIsolation(cfg.CheckoutIsolation))
	authorizer := payment.NewGatewayClient(cfg.PaymentGatewayURL, time.Duration(cfg.PaymentTimeoutSec)*time.Second)
	publisher := notification.NewQueuePublisher(notification.BrokerURL())
	checkoutSvc := checkout.NewService(uow, store, store, store, store, authorizer, publisher)

	// Consumer side: invoices and confirmation emails, driven off the
	// booking.confirmed queue so a slow SMTP relay never delays checkout.
	dispatcher := notification.NewDispatcher(notification.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		From: cfg.SMTPFrom,
		Pass: cfg.SMTPPass,
	})
	go func() {
		if err := queue.StartBookingConsumer(notification.BrokerURL(), dispatcher); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	ownerHandler := handler.NewOwnerHandler(hotels, categories, rooms, bookings)
	cartHandler := handler.NewCartHandler(carts, categories, rooms)
	checkoutHandler := handler.NewCheckoutHandler(checkoutSvc)
	bookingHandler := handler.NewBookingHandler(bookings)
	publicHandler := &handler.PublicHandler{HotelRepo: hotels, CategoryRepo: categories, RoomRepo: rooms}

	e := echo.New()

	// Cross-cutting middlewares: rate limiting first, then the response
	// cache for public reads.  Both degrade to no-ops without Redis.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Routes
	router.RegisterRoutes(e) // health check
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler)
	router.RegisterOwner(e, ownerHandler, cfg.JWTSecret)
	router.RegisterOwnerBookings(e, ownerHandler, cfg.JWTSecret)
	router.RegisterCustomer(e, cartHandler, checkoutHandler, bookingHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
