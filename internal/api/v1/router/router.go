package router

import (
	"net/http"

	"lms/internal/api/v1/handler"
	"lms/internal/config"
	"lms/internal/middleware"
	"lms/internal/pubsub"
	"lms/internal/repository"
	"lms/internal/service"
	"lms/internal/session"
	"lms/internal/storage"
	"lms/internal/util"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps are the infrastructure clients the router wires into services.
type Deps struct {
	DB        *gorm.DB
	Store     storage.ObjectStore
	Publisher pubsub.Publisher
	Sessions  *session.Manager
}

func New(cfg *config.Config, deps Deps, logger zerolog.Logger) http.Handler {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initialized")

	validate := util.NewValidator()

	// Repositories
	courseRepo := repository.NewCourseRepo(deps.DB)
	chapterRepo := repository.NewChapterRepo(deps.DB)
	categoryRepo := repository.NewCategoryRepo(deps.DB)
	attachmentRepo := repository.NewAttachmentRepo(deps.DB)
	userRepo := repository.NewUserRepo(deps.DB)

	// Services
	access := service.NewCourseAccess(courseRepo, cfg.EnforceCourseOwnership)
	authSvc := service.NewAuthService(userRepo, logger)
	courseSvc := service.NewCourseService(courseRepo, access, deps.Publisher, cfg.PubSubCourseTopic, logger)
	chapterSvc := service.NewChapterService(chapterRepo, courseRepo, access, deps.Publisher, cfg.PubSubChapterTopic, logger)
	categorySvc := service.NewCategoryService(categoryRepo)
	attachmentSvc := service.NewAttachmentService(attachmentRepo, access)
	userSvc := service.NewUserService(userRepo, logger)
	uploadSvc := service.NewUploadService(deps.Store, access, deps.Publisher, cfg.PubSubUploadTopic, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, deps.Sessions, validate, logger)
	courseHandler := handler.NewCourseHandler(courseSvc, attachmentSvc, validate, logger)
	chapterHandler := handler.NewChapterHandler(chapterSvc, validate, logger)
	categoryHandler := handler.NewCategoryHandler(categorySvc, logger)
	userHandler := handler.NewUserHandler(userSvc, validate, logger)
	uploadHandler := handler.NewUploadHandler(uploadSvc, cfg.UploadMaxBytes, logger)
	pageHandler := handler.NewPageHandler(courseSvc, categorySvc, userSvc, validate, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(c.Handler)
	r.Use(middleware.SessionMiddleware(service.NewSessionResolver(deps.Sessions, userRepo, logger)))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	authHandler.RegisterRoutes(r)
	courseHandler.RegisterRoutes(r)
	chapterHandler.RegisterRoutes(r)
	categoryHandler.RegisterRoutes(r)
	userHandler.RegisterRoutes(r)
	uploadHandler.RegisterRoutes(r)
	pageHandler.RegisterRoutes(r)

	return r
}
