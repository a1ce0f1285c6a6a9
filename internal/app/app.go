package app

import (
	"unistay-backend/internal/cache"
	"unistay-backend/internal/config"
	"unistay-backend/internal/database"
	"unistay-backend/internal/domain"
	"unistay-backend/internal/middleware"

	authsvc "unistay-backend/internal/application/auth"
	booksvc "unistay-backend/internal/application/bookings"
	escrowsvc "unistay-backend/internal/application/escrow"
	notifsvc "unistay-backend/internal/application/notifications"
	propsvc "unistay-backend/internal/application/properties"
	resvc "unistay-backend/internal/application/reservations"

	authh "unistay-backend/internal/interfaces/handlers/auth"
	bookh "unistay-backend/internal/interfaces/handlers/bookings"
	escrowh "unistay-backend/internal/interfaces/handlers/escrow"
	healthh "unistay-backend/internal/interfaces/handlers/health"
	notifh "unistay-backend/internal/interfaces/handlers/notifications"
	proph "unistay-backend/internal/interfaces/handlers/properties"
	resh "unistay-backend/internal/interfaces/handlers/reservations"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// App bundles the Fiber app with the shared resources main needs for
// startup checks and the background sweep.
type App struct {
	Fiber        *fiber.App
	DB           *gorm.DB
	Rdb          *redis.Client
	Reservations *resvc.Service
}

// New builds the Fiber app with all global middleware and route registration.
func New(cfg *config.Config) (*App, error) {
	fiberApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	fiberApp.Use(middleware.CORS(cfg.FrontendURL))
	fiberApp.Use(middleware.Tracing())
	fiberApp.Use(middleware.RouteLogger())

	var rdb *redis.Client
	var listingCache cache.Cache = cache.Noop{}
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		rdb = redis.NewClient(opt)
		listingCache = cache.NewRedisCache(rdb, "unistay:")
	}

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
	}

	healthHandlers := &healthh.Handlers{DB: db, Rdb: rdb}
	fiberApp.Get("/health/json", healthHandlers.JSON)

	out := &App{Fiber: fiberApp, DB: db, Rdb: rdb}
	// db may be nil if DATABASE_URL not set (e.g. tests); API routes need it
	if db == nil {
		return out, nil
	}

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)

	emitter := &notifsvc.Service{DB: db}

	authService := &authsvc.Service{DB: db}
	authHandlers := &authh.Handlers{Service: authService, JWTSecret: cfg.JWTSecret}
	authGroup := fiberApp.Group("/api/v1/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", requireAuth, authHandlers.Me)

	propertyService := &propsvc.Service{DB: db, Cache: listingCache, CacheTTL: cfg.ListingCacheTTL}
	propertyHandlers := &proph.Handlers{Service: propertyService}
	propertyGroup := fiberApp.Group("/api/v1/properties", requireAuth)
	propertyGroup.Post("/", middleware.RequireRole(domain.RoleLandlord), propertyHandlers.CreateProperty)
	propertyGroup.Get("/", propertyHandlers.ListAvailable)
	propertyGroup.Get("/mine", middleware.RequireRole(domain.RoleLandlord), propertyHandlers.ListMine)
	propertyGroup.Get("/:id", propertyHandlers.GetProperty)
	propertyGroup.Patch("/:id", middleware.RequireRole(domain.RoleLandlord), propertyHandlers.UpdateProperty)
	propertyGroup.Patch("/:id/verify", middleware.RequireRole(domain.RoleAdmin), propertyHandlers.VerifyProperty)

	reservationService := &resvc.Service{DB: db, Emitter: emitter, Quota: cfg.MaxActiveReservations}
	out.Reservations = reservationService
	reservationHandlers := &resh.Handlers{Service: reservationService}
	reservationGroup := fiberApp.Group("/api/v1/reservations", requireAuth)
	reservationGroup.Post("/", middleware.RequireRole(domain.RoleStudent), reservationHandlers.CreateReservation)
	reservationGroup.Get("/", reservationHandlers.GetReservations)
	reservationGroup.Post("/expire", middleware.RequireRole(domain.RoleAdmin), reservationHandlers.Expire)
	reservationGroup.Patch("/:id/status", middleware.RequireRole(domain.RoleLandlord), reservationHandlers.UpdateStatus)
	reservationGroup.Delete("/:id", middleware.RequireRole(domain.RoleStudent), reservationHandlers.Cancel)

	bookingService := &booksvc.Service{DB: db, Emitter: emitter}
	bookingHandlers := &bookh.Handlers{Service: bookingService}
	bookingGroup := fiberApp.Group("/api/v1/bookings", requireAuth)
	bookingGroup.Post("/", middleware.RequireRole(domain.RoleStudent), bookingHandlers.CreateBooking)
	bookingGroup.Get("/", bookingHandlers.GetBookings)
	bookingGroup.Get("/:id", bookingHandlers.GetBookingByID)
	bookingGroup.Patch("/:id/status", bookingHandlers.UpdateStatus)
	bookingGroup.Delete("/:id", middleware.RequireRole(domain.RoleStudent), bookingHandlers.Cancel)

	escrowService := &escrowsvc.Service{DB: db}
	escrowHandlers := &escrowh.Handlers{Service: escrowService}
	escrowGroup := fiberApp.Group("/api/v1/escrow", requireAuth)
	escrowGroup.Get("/landlord", middleware.RequireRole(domain.RoleLandlord), escrowHandlers.GetLandlordEscrow)
	escrowGroup.Get("/student", middleware.RequireRole(domain.RoleStudent), escrowHandlers.GetStudentEscrow)
	escrowGroup.Get("/booking/:bookingId", escrowHandlers.GetEscrowByBooking)
	escrowGroup.Post("/:escrowId/accept", middleware.RequireRole(domain.RoleLandlord), escrowHandlers.Accept)
	escrowGroup.Post("/:escrowId/decline", middleware.RequireRole(domain.RoleLandlord), escrowHandlers.Decline)

	notificationHandlers := &notifh.Handlers{Service: emitter}
	notificationGroup := fiberApp.Group("/api/v1/notifications", requireAuth)
	notificationGroup.Get("/", notificationHandlers.List)
	notificationGroup.Patch("/:id/read", notificationHandlers.MarkRead)

	return out, nil
}
