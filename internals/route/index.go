package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/configs"
	dashboardService "volunteerhub_backend/internals/features/events/dashboard/service"
	eventRepo "volunteerhub_backend/internals/features/events/events/repository"
	regService "volunteerhub_backend/internals/features/events/registrations/service"
	authService "volunteerhub_backend/internals/features/users/auth/service"
	authMiddleware "volunteerhub_backend/internals/middlewares/auth"
	routeDetails "volunteerhub_backend/internals/route/details"
)

var startTime time.Time

// Services are the explicitly wired dependencies every route group receives.
type Services struct {
	DB        *gorm.DB
	Events    *eventRepo.EventRepository
	Ledger    *regService.Ledger
	Dashboard *dashboardService.DashboardService
	Auth      *authService.AuthService
}

func NewServices(db *gorm.DB, cfg *configs.Config) *Services {
	events := eventRepo.NewEventRepository(db, cfg.Timezone)
	ledger := regService.NewLedger(db, cfg.Timezone)
	return &Services{
		DB:        db,
		Events:    events,
		Ledger:    ledger,
		Dashboard: dashboardService.NewDashboardService(events, ledger, cfg.Timezone),
		Auth:      authService.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL),
	}
}

func SetupRoutes(app *fiber.App, s *Services, cfg *configs.Config) {
	startTime = time.Now()

	log.Info("[ROUTES] base")
	BaseRoutes(app, s.DB, cfg)

	log.Info("[ROUTES] auth")
	routeDetails.AuthRoutes(app, s.Auth)

	// PUBLIC: no login; registration tokens travel in request bodies
	log.Info("[ROUTES] public group")
	public := app.Group("/api/public")
	routeDetails.EventPublicRoutes(public, s.Events, s.Ledger)

	// ORGANIZER: JWT + organizer role.
	// fiber matches group middleware by plain string prefix, so "/api/a" also
	// sees /api/auth/* and /api/anything. Groups sharing that prefix must be
	// registered above and end in their own 404.
	log.Info("[ROUTES] organizer group")
	organizer := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              cfg.JWTSecret,
			AllowCookieFallback: true,
		}),
		authMiddleware.RequireOrganizer(),
	)
	routeDetails.EventOrganizerRoutes(organizer, s.Events, s.Ledger, s.Dashboard)
}
