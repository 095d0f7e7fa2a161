// Package httpserver exposes the REST API. Every authenticated handler
// resolves the caller's tenant scope from the request user and passes it
// down explicitly.
package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/oauth2"

	"github.com/printfarmhq/printfarm/internal/auth"
	"github.com/printfarmhq/printfarm/internal/domain"
	"github.com/printfarmhq/printfarm/internal/usecase"
)

type Server struct {
	users         *usecase.UserUC
	filaments     *usecase.FilamentUC
	products      *usecase.ProductUC
	printers      *usecase.PrinterUC
	jobs          *usecase.PrintJobUC
	subscriptions *usecase.SubscriptionUC
	tokens        *auth.TokenIssuer
	storage       domain.FileStorage
	oauthCfg      *oauth2.Config
}

func New(
	users *usecase.UserUC,
	filaments *usecase.FilamentUC,
	products *usecase.ProductUC,
	printers *usecase.PrinterUC,
	jobs *usecase.PrintJobUC,
	subscriptions *usecase.SubscriptionUC,
	tokens *auth.TokenIssuer,
	storage domain.FileStorage,
	oauthCfg *oauth2.Config,
) http.Handler {
	s := &Server{
		users:         users,
		filaments:     filaments,
		products:      products,
		printers:      printers,
		jobs:          jobs,
		subscriptions: subscriptions,
		tokens:        tokens,
		storage:       storage,
		oauthCfg:      oauthCfg,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(logRequests)
	r.Use(chimw.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/auth/google/login", s.handleGoogleLogin)
		r.Get("/auth/google/callback", s.handleGoogleCallback)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/me", s.handleMe)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.listTeam)
				r.Post("/", s.createMember)
				r.Delete("/{id}", s.deleteMember)
			})

			r.Route("/filaments", func(r chi.Router) {
				r.Get("/", s.listFilaments)
				r.Post("/", s.createFilament)
				r.Get("/export", s.exportFilaments)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.getFilament)
					r.Patch("/", s.updateFilament)
					r.Delete("/", s.deleteFilament)
					r.Get("/purchases", s.listFilamentPurchases)
					r.Post("/purchases", s.createFilamentPurchase)
				})
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", s.listProducts)
				r.Post("/", s.createProduct)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.getProduct)
					r.Patch("/", s.updateProduct)
					r.Delete("/", s.deleteProduct)
					r.Get("/cost", s.productCost)
					r.Post("/plates", s.addPlate)
				})
			})

			r.Route("/plates/{id}", func(r chi.Router) {
				r.Patch("/", s.updatePlate)
				r.Delete("/", s.deletePlate)
			})

			r.Route("/printer-types", func(r chi.Router) {
				r.Get("/", s.listPrinterTypes)
				r.Post("/", s.createPrinterType)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.getPrinterType)
					r.Patch("/", s.updatePrinterType)
					r.Delete("/", s.deletePrinterType)
				})
			})

			r.Route("/printers", func(r chi.Router) {
				r.Get("/", s.listPrinters)
				r.Post("/", s.createPrinter)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.getPrinter)
					r.Patch("/", s.updatePrinter)
					r.Delete("/", s.deletePrinter)
				})
			})

			r.Route("/print-jobs", func(r chi.Router) {
				r.Get("/", s.listPrintJobs)
				r.Post("/", s.createPrintJob)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.getPrintJob)
					r.Delete("/", s.deletePrintJob)
					r.Patch("/status", s.updatePrintJobStatus)
					r.Get("/cogs", s.printJobCOGS)
				})
			})

			r.Get("/subscription", s.getSubscription)
			r.Put("/subscription", s.putSubscription)
		})
	})

	return r
}
