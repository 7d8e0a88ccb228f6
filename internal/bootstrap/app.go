package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"pethub-backend/internal/assets"
	"pethub-backend/internal/breeds"
	"pethub-backend/internal/pets"
	"pethub-backend/internal/petservices"
	"pethub-backend/internal/profileimages"
	"pethub-backend/internal/shared/config"
	"pethub-backend/internal/shared/server"
	"pethub-backend/internal/shared/storage/blob"
	localstore "pethub-backend/internal/shared/storage/blob/local"
	s3store "pethub-backend/internal/shared/storage/blob/s3"
	"pethub-backend/internal/shared/storage/db"
	"pethub-backend/internal/users"
)

// App holds the wired application dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Blobs  blob.Store

	AssetsRepo      assets.Repo
	UsersRepo       users.Repo
	PetsRepo        pets.Repo
	PetServicesRepo petservices.Repo

	AssetStore *assets.Store
	UserImages *profileimages.Service
	PetImages  *profileimages.Service

	UsersService       *users.Service
	PetsService        *pets.Service
	PetServicesService *petservices.Service
	BreedsClient       *breeds.Client

	UsersHandler       *users.Handler
	PetsHandler        *pets.Handler
	PetServicesHandler *petservices.Handler
}

// Build wires repositories, services, handlers and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	blobs, err := buildBlobs(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Blobs:  blobs,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             app.Config,
		UsersHandler:       app.UsersHandler,
		PetsHandler:        app.PetsHandler,
		PetServicesHandler: app.PetServicesHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildBlobs(ctx context.Context, cfg config.Config) (blob.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.AssetsRepo = &assets.PGRepo{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.PetsRepo = &pets.PGRepo{DB: app.DB}
		app.PetServicesRepo = &petservices.PGRepo{DB: app.DB}
	} else {
		app.AssetsRepo = assets.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
		app.PetsRepo = pets.NewMemoryRepo()
		app.PetServicesRepo = petservices.NewMemoryRepo()
	}

	app.AssetStore = assets.NewStore(app.AssetsRepo, app.Blobs, profileimages.MaxImageBytes)
	app.UserImages = profileimages.NewService(app.AssetStore, app.UsersRepo)
	app.PetImages = profileimages.NewService(app.AssetStore, app.PetsRepo)

	app.UsersService = users.NewService(app.UsersRepo)
	app.BreedsClient = breeds.NewClient(app.Config.DogAPIURL, app.Config.CatAPIURL)
	app.PetsService = pets.NewService(app.PetsRepo, app.PetImages)
	app.PetServicesService = petservices.NewService(app.PetServicesRepo)

	app.UsersHandler = users.NewHandler(app.UsersService, app.UserImages)
	app.PetsHandler = pets.NewHandler(app.PetsService, app.PetImages, app.BreedsClient)
	app.PetServicesHandler = petservices.NewHandler(app.PetServicesService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
