// Package app wires repositories, services and handlers into a router.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/empleoya/api"
	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/applicant"
	applicantPostgres "github.com/frahmantamala/empleoya/internal/applicant/postgres"
	"github.com/frahmantamala/empleoya/internal/application"
	applicationPostgres "github.com/frahmantamala/empleoya/internal/application/postgres"
	"github.com/frahmantamala/empleoya/internal/auth"
	authPostgres "github.com/frahmantamala/empleoya/internal/auth/postgres"
	"github.com/frahmantamala/empleoya/internal/category"
	categoryPostgres "github.com/frahmantamala/empleoya/internal/category/postgres"
	"github.com/frahmantamala/empleoya/internal/company"
	companyPostgres "github.com/frahmantamala/empleoya/internal/company/postgres"
	"github.com/frahmantamala/empleoya/internal/core/events"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/favorite"
	favoritePostgres "github.com/frahmantamala/empleoya/internal/favorite/postgres"
	"github.com/frahmantamala/empleoya/internal/notification"
	notificationPostgres "github.com/frahmantamala/empleoya/internal/notification/postgres"
	"github.com/frahmantamala/empleoya/internal/offer"
	offerPostgres "github.com/frahmantamala/empleoya/internal/offer/postgres"
	"github.com/frahmantamala/empleoya/internal/statistics"
	statisticsPostgres "github.com/frahmantamala/empleoya/internal/statistics/postgres"
	"github.com/frahmantamala/empleoya/internal/storage"
	"github.com/frahmantamala/empleoya/internal/transport"
	"github.com/frahmantamala/empleoya/internal/transport/rest"
	"github.com/frahmantamala/empleoya/internal/transport/swagger"
	"github.com/frahmantamala/empleoya/internal/user"
	userPostgres "github.com/frahmantamala/empleoya/internal/user/postgres"
	"github.com/frahmantamala/empleoya/internal/web"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// Options carries the optional infrastructure. Zero values disable the feature.
type Options struct {
	Revoker auth.TokenRevoker
	Storage storage.Provider
	Checks  map[string]rest.HealthCheck
	// SyncEvents delivers events before Publish returns.
	SyncEvents bool
	Logger     *slog.Logger
}

type Services struct {
	Users         *user.Service
	Auth          *auth.Service
	Categories    *category.Service
	Companies     *company.Service
	Applicants    *applicant.Service
	Offers        *offer.Service
	Applications  *application.Service
	Favorites     *favorite.Service
	Notifications *notification.Service
	Statistics    *statistics.Service
}

type App struct {
	Services Services
	Bus      *events.EventBus
	Router   *chi.Mux
}

// New builds the services over db (gorm) and readDB (sqlx, same database) and mounts every route.
func New(ctx context.Context, cfg *internal.Config, db *gorm.DB, readDB *sqlx.DB, opts Options) (*App, error) {
	lg := opts.Logger
	if lg == nil {
		lg = slog.Default()
	}

	bus := events.NewEventBus(lg)
	var publisher events.Publisher = bus
	if opts.SyncEvents {
		publisher = syncPublisher{bus}
	}

	svc := Services{}
	svc.Users = user.NewService(userPostgres.NewUserRepository(db), cfg.Security.BCryptCost, lg)
	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTAccessSecret, cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration, cfg.Security.RefreshTokenDuration)
	svc.Auth = auth.NewService(authPostgres.NewRepository(db), svc.Users, tokens, opts.Revoker, lg)
	svc.Categories = category.NewService(categoryPostgres.NewCategoryRepository(db), lg)
	svc.Companies = company.NewService(companyPostgres.NewCompanyRepository(db), lg)
	svc.Applicants = applicant.NewService(applicantPostgres.NewApplicantRepository(db), opts.Storage, lg)
	svc.Offers = offer.NewService(offerPostgres.NewOfferRepository(db), svc.Categories, cfg.Offers, lg)
	svc.Applications = application.NewService(applicationPostgres.NewApplicationRepository(db), publisher, lg)
	svc.Favorites = favorite.NewService(favoritePostgres.NewFavoriteRepository(db), lg)
	svc.Notifications = notification.NewService(notificationPostgres.NewNotificationRepository(db), lg)
	svc.Statistics = statistics.NewService(statisticsPostgres.NewStatisticsRepository(readDB), lg)

	svc.Users.RegisterProfileLoader(identity.RoleEmployer, svc.Companies)
	svc.Users.RegisterProfileLoader(identity.RoleApplicant, svc.Applicants)

	notification.NewEventHandler(svc.Notifications, lg).RegisterEventHandlers(bus)

	doc, err := swagger.Load(ctx, api.OpenAPI)
	if err != nil {
		return nil, err
	}
	pages, err := web.NewPages(web.Services{
		Offers:       svc.Offers,
		Categories:   svc.Categories,
		Stats:        svc.Statistics,
		Applications: svc.Applications,
		Auth:         svc.Auth,
	}, web.SessionOptions{
		Secure: cfg.Server.Env == "production",
		TTL:    cfg.Security.RefreshTokenDuration,
	}, lg)
	if err != nil {
		return nil, fmt.Errorf("web pages: %w", err)
	}

	base := transport.NewBaseHandler(lg)
	handlers := rest.Handlers{
		Auth:         auth.NewHandler(base, svc.Auth),
		RBAC:         auth.NewRBACAuthorization(auth.NewPermissionChecker(), lg),
		User:         user.NewHandler(base, svc.Users),
		Category:     category.NewHandler(base, svc.Categories),
		Company:      company.NewHandler(base, svc.Companies),
		Applicant:    applicant.NewHandler(base, svc.Applicants),
		Offer:        offer.NewHandler(base, svc.Offers),
		Application:  application.NewHandler(base, svc.Applications),
		Favorite:     favorite.NewHandler(base, svc.Favorites),
		Notification: notification.NewHandler(base, svc.Notifications),
		Statistics:   statistics.NewHandler(base, svc.Statistics),
		Health:       rest.NewHealthHandler(healthChecks(readDB, opts.Checks)),
		OpenAPI:      doc,
		Pages:        pages,
	}

	return &App{
		Services: svc,
		Bus:      bus,
		Router:   rest.NewRouter(handlers, cfg.Server.Origins(), lg),
	}, nil
}

func healthChecks(readDB *sqlx.DB, extra map[string]rest.HealthCheck) map[string]rest.HealthCheck {
	checks := map[string]rest.HealthCheck{
		"postgres": readDB.PingContext,
	}
	for name, check := range extra {
		checks[name] = check
	}
	return checks
}

type syncPublisher struct {
	bus *events.EventBus
}

func (p syncPublisher) Publish(ctx context.Context, event events.Event) error {
	return p.bus.PublishSync(ctx, event)
}
