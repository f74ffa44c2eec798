package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"resume-builder/internal/auth"
	"resume-builder/internal/draft"
	"resume-builder/internal/export"
	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	sharedauth "resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/kv"
	"resume-builder/internal/shared/storage/object"
	gcsstore "resume-builder/internal/shared/storage/object/gcs"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/summarize"
	"resume-builder/internal/users"
	"resume-builder/resume/render"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Firestore *firestore.Client
	Store     object.Store
	Drafts    kv.Storage
	DocStore  string

	Tokens      *sharedauth.Tokens
	Engine      render.Engine
	Summarizer  summarize.Provider
	UsersRepo   users.Repo
	ResumesRepo resumes.Repo

	AuthService    *auth.Service
	UsersService   *users.Service
	ResumesService *resumes.Service
	ExportService  *export.Service
	Sessions       *draft.Registry
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, DB: sqlDB}

	if err := app.buildDocStore(ctx); err != nil {
		return nil, err
	}
	if app.Store, err = buildStore(ctx, cfg); err != nil {
		return nil, err
	}
	if app.Drafts, err = buildDraftStorage(cfg, sqlDB); err != nil {
		return nil, err
	}
	ttl := time.Duration(cfg.JWTTTLHours) * time.Hour
	if app.Tokens, err = sharedauth.NewTokens(cfg.JWTSecret, ttl, cfg.Env); err != nil {
		return nil, err
	}

	app.Engine = render.NewEngine(cfg.PDFEngine, cfg.ChromePath)
	app.Summarizer = summarize.FromConfig(cfg)
	app.Router = server.NewRouter(app.buildServices())

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"doc_store":    app.DocStore,
		"object_store": cfg.ObjectStoreType,
		"draft_store":  cfg.DraftStore,
		"pdf_engine":   app.Engine.Name(),
		"summarizer":   app.Summarizer.Name(),
	})
	return app, nil
}

// Close releases database and Firestore connections.
func (a *App) Close() error {
	var errs []error
	if a.Firestore != nil {
		errs = append(errs, a.Firestore.Close())
	}
	if a.DB != nil && !db.IsLambdaRuntime() {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.DocStore == "postgres" && !cfg.IsDevLike() {
			return nil, fmt.Errorf("DATABASE_URL is required when DOC_STORE=postgres")
		}
		return nil, nil
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	role := db.RuntimeRole()
	if role == db.RoleLambda {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, db.OptionsFor(role))
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFor(role))
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db_unavailable", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if cfg.IsDevLike() {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, err
		}
	}
	return sqlDB, nil
}

// buildDocStore picks where users and resume history live.
func (a *App) buildDocStore(ctx context.Context) error {
	cfg := a.Config
	kind := cfg.DocStore
	if kind == "auto" {
		switch {
		case a.DB != nil:
			kind = "postgres"
		case cfg.FirestoreProjectID != "":
			kind = "firestore"
		default:
			kind = "memory"
		}
	}

	switch kind {
	case "postgres":
		if a.DB == nil {
			if !cfg.IsDevLike() {
				return errors.New("DOC_STORE=postgres requires a reachable database")
			}
			telemetry.Warn("bootstrap.doc_store_fallback", map[string]any{"wanted": kind, "using": "memory"})
			kind = "memory"
			break
		}
		a.UsersRepo = &users.PGRepo{DB: a.DB}
		a.ResumesRepo = &resumes.PGRepo{DB: a.DB}
	case "firestore":
		if cfg.FirestoreProjectID == "" {
			return errors.New("DOC_STORE=firestore requires FIRESTORE_PROJECT_ID")
		}
		client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return fmt.Errorf("firestore client: %w", err)
		}
		a.Firestore = client
		a.UsersRepo = &users.FirestoreRepo{Client: client}
		a.ResumesRepo = &resumes.FirestoreRepo{Client: client}
	}
	if kind == "memory" {
		a.UsersRepo = users.NewMemoryRepo()
		a.ResumesRepo = resumes.NewMemoryRepo()
	}
	a.DocStore = kind
	return nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "gcs":
		if strings.TrimSpace(cfg.GCSBucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=gcs requires GCS_BUCKET")
		}
		return gcsstore.New(ctx, cfg.GCSBucket, cfg.GCSPrefix)
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL+"/api/v1/files"), nil
	}
}

func buildDraftStorage(cfg config.Config, sqlDB *sql.DB) (kv.Storage, error) {
	switch cfg.DraftStore {
	case "memory":
		return kv.NewMemory(), nil
	case "postgres":
		if sqlDB != nil {
			return kv.NewPG(sqlDB), nil
		}
		if !cfg.IsDevLike() {
			return nil, errors.New("DRAFT_STORE=postgres requires a reachable database")
		}
		telemetry.Warn("bootstrap.draft_store_fallback", map[string]any{"wanted": "postgres", "using": "file"})
	}
	return kv.NewFile(cfg.DraftDir)
}

func (a *App) buildServices() server.RouterDeps {
	cfg := a.Config

	a.UsersService = users.NewService(a.UsersRepo)
	a.AuthService = auth.NewService(a.UsersRepo, a.Tokens, auth.NewBcryptHasher(cfg.BcryptCost, cfg.PasswordPepper))
	a.ResumesService = resumes.NewService(a.ResumesRepo, a.Store)
	a.ExportService = export.NewService(a.Engine, a.Store, a.ResumesService, a.AuthService)
	a.Sessions = draft.NewRegistry(a.Drafts)

	var pinger health.Pinger
	if a.DB != nil {
		pinger = a.DB
	}

	return server.RouterDeps{
		Config:           cfg,
		Tokens:           a.Tokens,
		Health:           health.NewService(pinger, a.Engine.Name(), a.DocStore),
		DraftHandler:     draft.NewHandler(a.Sessions, summarize.Local{Provider: a.Summarizer}),
		ExportHandler:    export.NewHandler(a.ExportService, a.Sessions),
		SummarizeHandler: summarize.NewHandler(a.Summarizer),
		AuthHandler:      auth.NewHandler(a.AuthService),
		GoogleAuth: auth.NewGoogleProvider(
			a.AuthService,
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.UIRedirectURL,
		),
		UsersHandler:   users.NewHandler(a.UsersService),
		ResumesHandler: resumes.NewHandler(a.ResumesService),
	}
}
