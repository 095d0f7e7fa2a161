// Package app wires repositories, use cases and the HTTP layer together.
package app

import (
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/printfarmhq/printfarm/internal/adapters/httpserver"
	"github.com/printfarmhq/printfarm/internal/adapters/repo/postgres"
	"github.com/printfarmhq/printfarm/internal/adapters/storage/localfs"
	"github.com/printfarmhq/printfarm/internal/auth"
	"github.com/printfarmhq/printfarm/internal/config"
	"github.com/printfarmhq/printfarm/internal/domain"
	"github.com/printfarmhq/printfarm/internal/migrations"
	"github.com/printfarmhq/printfarm/internal/usecase"
)

type App struct {
	DB      *gorm.DB
	Tokens  *auth.TokenIssuer
	Storage domain.FileStorage

	UserUC         *usecase.UserUC
	FilamentUC     *usecase.FilamentUC
	ProductUC      *usecase.ProductUC
	PrinterUC      *usecase.PrinterUC
	PrintJobUC     *usecase.PrintJobUC
	SubscriptionUC *usecase.SubscriptionUC

	OAuthConfig *oauth2.Config
}

func NewApp(db *gorm.DB, cfg config.Config) (*App, error) {
	userRepo := postgres.NewUserRepo(db)
	filamentRepo := postgres.NewFilamentRepo(db)
	productRepo := postgres.NewProductRepo(db)
	typeRepo := postgres.NewPrinterTypeRepo(db)
	printerRepo := postgres.NewPrinterRepo(db)
	jobRepo := postgres.NewPrintJobRepo(db)
	subRepo := postgres.NewSubscriptionRepo(db)

	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		return nil, err
	}
	storage := localfs.New(cfg.StorageDir)

	var oauthCfg *oauth2.Config
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.BaseURL + "/api/v1/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	return &App{
		DB:      db,
		Tokens:  auth.NewTokenIssuer(cfg.AuthSecret, cfg.TokenTTL),
		Storage: storage,

		UserUC:         &usecase.UserUC{Users: userRepo, Subscriptions: subRepo},
		FilamentUC:     &usecase.FilamentUC{Filaments: filamentRepo},
		ProductUC:      &usecase.ProductUC{Products: productRepo, Filaments: filamentRepo},
		PrinterUC:      &usecase.PrinterUC{Types: typeRepo, Printers: printerRepo},
		PrintJobUC:     &usecase.PrintJobUC{Jobs: jobRepo, Products: productRepo, Printers: printerRepo, Types: typeRepo, Filaments: filamentRepo},
		SubscriptionUC: &usecase.SubscriptionUC{Subscriptions: subRepo},

		OAuthConfig: oauthCfg,
	}, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(
		a.UserUC,
		a.FilamentUC,
		a.ProductUC,
		a.PrinterUC,
		a.PrintJobUC,
		a.SubscriptionUC,
		a.Tokens,
		a.Storage,
		a.OAuthConfig,
	)
}

// Migrate applies the embedded schema migrations.
func (a *App) Migrate() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return migrations.Up(sqlDB)
}
