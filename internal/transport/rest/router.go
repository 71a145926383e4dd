package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/empleoya/internal/applicant"
	"github.com/frahmantamala/empleoya/internal/application"
	"github.com/frahmantamala/empleoya/internal/auth"
	"github.com/frahmantamala/empleoya/internal/category"
	"github.com/frahmantamala/empleoya/internal/company"
	"github.com/frahmantamala/empleoya/internal/favorite"
	"github.com/frahmantamala/empleoya/internal/notification"
	"github.com/frahmantamala/empleoya/internal/offer"
	"github.com/frahmantamala/empleoya/internal/statistics"
	"github.com/frahmantamala/empleoya/internal/transport/middleware"
	"github.com/frahmantamala/empleoya/internal/transport/swagger"
	"github.com/frahmantamala/empleoya/internal/user"
	"github.com/frahmantamala/empleoya/internal/web"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups everything the router mounts. Nil entries are skipped.
type Handlers struct {
	Auth         *auth.Handler
	RBAC         *auth.RBACAuthorization
	User         *user.Handler
	Category     *category.Handler
	Company      *company.Handler
	Applicant    *applicant.Handler
	Offer        *offer.Handler
	Application  *application.Handler
	Favorite     *favorite.Handler
	Notification *notification.Handler
	Statistics   *statistics.Handler
	Health       *HealthHandler
	OpenAPI      *swagger.Document
	Pages        *web.Pages
}

func NewRouter(h Handlers, origins []string, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()
	RegisterAllRoutes(router, h, origins, logger)
	return router
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, origins []string, logger *slog.Logger) {
	rbac := h.RBAC
	if rbac == nil {
		rbac = auth.NewRBACAuthorization(nil, logger)
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORS(origins))

	if h.OpenAPI != nil {
		router.Get(swagger.DocumentPath, h.OpenAPI.ServeHTTP)
		router.Handle("/swagger/*", swagger.Handler())
	}

	if h.Pages != nil {
		h.Pages.Routes(router)
	}

	router.Route("/api", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/v1/health", h.Health.Health)
			r.Get("/v1/ping", h.Health.Ping)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", h.Auth.Register)
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)

			ar.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Post("/logout", h.Auth.Logout)
				if h.User != nil {
					pr.Get("/perfil", h.User.GetProfile)
					pr.Post("/cambiar_password", h.User.ChangePassword)
				}
			})
		})

		// public reads; a valid token still identifies owners and admins
		r.Group(func(pub chi.Router) {
			pub.Use(h.Auth.OptionalAuth)

			if h.Category != nil {
				pub.Get("/categorias", h.Category.GetCategories)
				pub.Get("/categorias/{id}", h.Category.GetCategory)
			}
			if h.Company != nil {
				pub.Get("/empresas", h.Company.ListCompanies)
				pub.With(rbacOnly(h.Auth, rbac.RequireEmployer())).Get("/empresas/mi_empresa", h.Company.GetMyCompany)
				pub.Get("/empresas/{id}", h.Company.GetCompany)
			}
			if h.Offer != nil {
				pub.Get("/ofertas", h.Offer.ListOffers)
				pub.Get("/ofertas/{id}", h.Offer.GetOffer)
				pub.Get("/ofertas/{id}/similares", h.Offer.SimilarOffers)
			}
			if h.Statistics != nil {
				pub.Get("/estadisticas/generales", h.Statistics.GetGeneral)
			}
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.Company != nil {
				pr.With(rbac.RequireEmployer()).Put("/empresas/mi_empresa", h.Company.UpdateMyCompany)
				pr.With(rbac.RequireEmployer()).Patch("/empresas/mi_empresa", h.Company.UpdateMyCompany)
			}

			if h.Applicant != nil {
				pr.Get("/perfiles", h.Applicant.ListProfiles)
				pr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireApplicant())
					mr.Get("/perfiles/mi_perfil", h.Applicant.GetMyProfile)
					mr.Put("/perfiles/mi_perfil", h.Applicant.UpdateMyProfile)
					mr.Patch("/perfiles/mi_perfil", h.Applicant.UpdateMyProfile)
					mr.Post("/perfiles/mi_perfil/cv", h.Applicant.UploadCV)
				})
				pr.Get("/perfiles/{id}", h.Applicant.GetProfile)
			}

			if h.Offer != nil {
				pr.With(rbac.RequireEmployer()).Post("/ofertas", h.Offer.CreateOffer)
				pr.With(rbac.RequireEmployer()).Get("/ofertas/mis_ofertas", h.Offer.MyOffers)
				pr.Put("/ofertas/{id}", h.Offer.UpdateOffer)
				pr.Patch("/ofertas/{id}", h.Offer.UpdateOffer)
				pr.Delete("/ofertas/{id}", h.Offer.DeleteOffer)
				pr.Post("/ofertas/{id}/cambiar_estado", h.Offer.ChangeStatus)
				if h.Application != nil {
					pr.Get("/ofertas/{id}/postulaciones/export", h.Application.ExportApplications)
				}
			}

			if h.Application != nil {
				pr.Route("/postulaciones", func(ar chi.Router) {
					ar.Get("/", h.Application.ListApplications)
					ar.With(rbac.RequireApplicant()).Post("/", h.Application.CreateApplication)
					ar.Get("/{id}", h.Application.GetApplication)
					ar.Delete("/{id}", h.Application.WithdrawApplication)
					ar.Post("/{id}/cambiar_estado", h.Application.ChangeStatus)
				})
			}

			if h.Favorite != nil {
				pr.Get("/favoritos", h.Favorite.ListFavorites)
				pr.Post("/favoritos", h.Favorite.AddFavorite)
				pr.Delete("/favoritos/{id}", h.Favorite.RemoveFavorite)
			}

			if h.Notification != nil {
				pr.Route("/notificaciones", func(nr chi.Router) {
					nr.Get("/", h.Notification.ListNotifications)
					nr.Get("/no_leidas", h.Notification.UnreadCount)
					nr.Post("/marcar_todas_leidas", h.Notification.MarkAllRead)
					nr.Post("/{id}/marcar_leida", h.Notification.MarkRead)
					nr.Delete("/{id}", h.Notification.DeleteNotification)
				})
			}

			if h.Statistics != nil {
				pr.Get("/estadisticas/mis-estadisticas", h.Statistics.GetMine)
			}

			pr.Route("/admin", func(adm chi.Router) {
				adm.Use(rbac.RequireAdmin())
				if h.Category != nil {
					adm.Post("/categorias", h.Category.CreateCategory)
					adm.Patch("/categorias/{id}", h.Category.UpdateCategory)
				}
				if h.Company != nil {
					adm.Post("/empresas/{id}/verificar", h.Company.VerifyCompany)
				}
				if h.Offer != nil {
					adm.Post("/ofertas/{id}/aprobar", h.Offer.ApproveOffer)
				}
			})
		})
	})
}

// rbacOnly requires a token before the role gate, for routes that live in the public group.
func rbacOnly(a *auth.Handler, gate func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return a.AuthMiddleware(gate(next))
	}
}
