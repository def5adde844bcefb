package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campus-labs/college-erp-api/api/swagger"
	"github.com/campus-labs/college-erp-api/internal/handler"
	"github.com/campus-labs/college-erp-api/internal/middleware"
	"github.com/campus-labs/college-erp-api/internal/models"
	"github.com/campus-labs/college-erp-api/internal/repository"
	"github.com/campus-labs/college-erp-api/internal/service"
	"github.com/campus-labs/college-erp-api/internal/store"
	"github.com/campus-labs/college-erp-api/pkg/cache"
	"github.com/campus-labs/college-erp-api/pkg/config"
	"github.com/campus-labs/college-erp-api/pkg/database"
	"github.com/campus-labs/college-erp-api/pkg/export"
	"github.com/campus-labs/college-erp-api/pkg/logger"
	corsmiddleware "github.com/campus-labs/college-erp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campus-labs/college-erp-api/pkg/middleware/requestid"
)

// entityStore is the union of the store methods the services consume.
// Both the in-memory store and the Postgres-backed repository facade
// satisfy it.
type entityStore interface {
	CreateAdmission(ctx context.Context, a *models.Admission) error
	ListAdmissions(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, error)
	FindAdmission(ctx context.Context, id string) (*models.Admission, error)
	FindAdmissionByStudent(ctx context.Context, studentID string) (*models.Admission, error)
	UpdateAdmission(ctx context.Context, a *models.Admission) error

	ListFees(ctx context.Context) ([]models.Fee, error)
	ListFeesByStudent(ctx context.Context, studentID string) ([]models.Fee, error)
	FindFee(ctx context.Context, id string) (*models.Fee, error)
	UpdateFee(ctx context.Context, f *models.Fee) error

	ListRooms(ctx context.Context) ([]models.HostelRoom, error)
	FindRoomByOccupant(ctx context.Context, studentID string) (*models.HostelRoom, error)
	AddOccupant(ctx context.Context, roomID string, occupant models.RoomOccupant) (*models.HostelRoom, error)
	RemoveOccupant(ctx context.Context, roomID, studentID string) (*models.HostelRoom, error)

	ListBooks(ctx context.Context) ([]models.LibraryBook, error)
	ListBooksIssuedTo(ctx context.Context, studentID string) ([]models.LibraryBook, error)
	MarkBookIssued(ctx context.Context, bookID, studentID, studentName string, issuedAt, dueAt time.Time) (*models.LibraryBook, error)
	MarkBookReturned(ctx context.Context, bookID string) (*models.LibraryBook, error)

	CreateSubject(ctx context.Context, subject *models.Subject) error
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	FindSubject(ctx context.Context, id string) (*models.Subject, error)
	CreateExam(ctx context.Context, e *models.Exam) error
	ListExams(ctx context.Context) ([]models.Exam, error)
	FindExam(ctx context.Context, id string) (*models.Exam, error)
	SetExamStatus(ctx context.Context, id string, status models.ExamStatus) error
	UpsertExamResult(ctx context.Context, r *models.ExamResult) error
	ListResultsByStudent(ctx context.Context, studentID string) ([]models.ExamResult, error)
	ListResultsByExam(ctx context.Context, examID string) ([]models.ExamResult, error)
	UpsertStudentGrade(ctx context.Context, g *models.StudentGrade) error
	FindStudentGrade(ctx context.Context, studentID string) (*models.StudentGrade, error)

	FindStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error
}

// @title College ERP API
// @version 1.0.0
// @description Academic and resource record aggregation engine
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStore(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("store init failed", "driver", cfg.StoreDriver, "error", err)
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	cacheSvc := openCache(cfg, metricsSvc, logr)

	validate := validator.New()

	identitySvc := service.NewIdentityService(st, logr)
	studentSvc := service.NewStudentService(identitySvc, st, st, st, st, logr)
	dashboardSvc := service.NewDashboardService(st, st, st, st, st, st, st, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	feeSvc := service.NewFeeService(st, cacheSvc, export.NewPDFExporter(), export.NewCSVExporter(), logr)
	examSvc := service.NewExamService(st, st, cacheSvc, validate, logr)
	librarySvc := service.NewLibraryService(st, identitySvc, cacheSvc, cfg.Library.LoanDays, logr)
	hostelSvc := service.NewHostelService(st, identitySvc, cacheSvc, logr)
	admissionSvc := service.NewAdmissionService(st, cacheSvc, validate, logr)
	authSvc := service.NewAuthService(st, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "college-erp-api",
	})

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	admissionHandler := handler.NewAdmissionHandler(admissionSvc)
	feeHandler := handler.NewFeeHandler(feeSvc)
	examHandler := handler.NewExamHandler(examSvc, dashboardSvc)
	libraryHandler := handler.NewLibraryHandler(librarySvc)
	hostelHandler := handler.NewHostelHandler(hostelSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if metricsSvc != nil {
		r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/admissions", admissionHandler.Apply)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	admin := string(models.RoleAdmin)
	student := string(models.RoleStudent)

	authed.GET("/students/:id/view", middleware.RBAC(admin, middleware.AllowSelf), studentHandler.View)

	if cfg.Dashboard.Enabled {
		authed.GET("/dashboard/metrics", middleware.RBAC(admin), dashboardHandler.Metrics)
		authed.GET("/dashboard/top-performers", middleware.RBAC(admin), dashboardHandler.TopPerformers)
		authed.GET("/dashboard/class-average", middleware.RBAC(admin), dashboardHandler.ClassAverage)
	}

	authed.GET("/admissions", middleware.RBAC(admin), admissionHandler.List)
	authed.GET("/admissions/:id", middleware.RBAC(admin), admissionHandler.Get)
	authed.PATCH("/admissions/:id/status", middleware.RBAC(admin), admissionHandler.Review)

	authed.GET("/fees", middleware.RBAC(admin), feeHandler.List)
	authed.GET("/fees/export", middleware.RBAC(admin), feeHandler.Export)
	authed.POST("/fees/:id/pay", middleware.RBAC(admin, student), feeHandler.Pay)
	if cfg.Receipts.Enabled {
		authed.GET("/fees/:id/receipt", middleware.RBAC(admin, student), feeHandler.Receipt)
	}

	authed.GET("/subjects", middleware.RBAC(admin, student), examHandler.ListSubjects)
	authed.POST("/subjects", middleware.RBAC(admin), examHandler.AddSubject)
	authed.GET("/exams", middleware.RBAC(admin, student), examHandler.List)
	authed.POST("/exams", middleware.RBAC(admin), examHandler.Schedule)
	authed.POST("/exams/:id/results", middleware.RBAC(admin), examHandler.RecordResult)
	authed.GET("/exams/:id/worklist", middleware.RBAC(admin), examHandler.Worklist)

	authed.GET("/books", middleware.RBAC(admin, student), libraryHandler.List)
	authed.POST("/books/:id/issue", middleware.RBAC(admin), libraryHandler.Issue)
	authed.POST("/books/:id/return", middleware.RBAC(admin), libraryHandler.Return)

	authed.GET("/rooms", middleware.RBAC(admin, student), hostelHandler.List)
	authed.POST("/rooms/:id/allocate", middleware.RBAC(admin), hostelHandler.Allocate)
	authed.POST("/rooms/:id/remove", middleware.RBAC(admin), hostelHandler.Remove)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.StoreDriver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// openStore selects the entity-table backend. The in-memory store is
// seeded with the demo dataset so the API is usable out of the box.
func openStore(cfg *config.Config, logr *zap.Logger) (entityStore, error) {
	if cfg.StoreDriver == config.StorePostgres {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		return repository.NewStore(db), nil
	}

	mem := store.NewMemoryStore()
	if err := store.Seed(context.Background(), mem); err != nil {
		return nil, err
	}
	logr.Info("in-memory store seeded")
	return mem, nil
}

// openCache connects to Redis. A missing cache degrades dashboards to
// recompute-per-request instead of failing startup.
func openCache(cfg *config.Config, metricsSvc *service.MetricsService, logr *zap.Logger) *service.CacheService {
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, dashboard caching disabled", zap.Error(err))
		return nil
	}
	repo := repository.NewCacheRepository(client, logr)
	return service.NewCacheService(repo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
}
