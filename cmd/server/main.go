package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	examsapp "github.com/schoolerp/backend/internal/application/exams"
	feesapp "github.com/schoolerp/backend/internal/application/fees"
	payrollapp "github.com/schoolerp/backend/internal/application/payroll"
	schoolapp "github.com/schoolerp/backend/internal/application/school"
	"github.com/schoolerp/backend/internal/infrastructure/config"
	"github.com/schoolerp/backend/internal/infrastructure/event"
	"github.com/schoolerp/backend/internal/infrastructure/logger"
	"github.com/schoolerp/backend/internal/infrastructure/persistence"
	"github.com/schoolerp/backend/internal/interfaces/http/handler"
	"github.com/schoolerp/backend/internal/interfaces/http/middleware"
	"github.com/schoolerp/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting School ERP Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// Initialize repositories
	schoolRepo := persistence.NewGormSchoolRepository(db.DB)
	yearRepo := persistence.NewGormAcademicYearRepository(db.DB)
	scaleRepo := persistence.NewGormGradeScaleRepository(db.DB)
	holidayRepo := persistence.NewGormHolidayRepository(db.DB)
	feeStructureRepo := persistence.NewGormFeeStructureRepository(db.DB)
	feeDiscountRepo := persistence.NewGormFeeDiscountRepository(db.DB)
	studentFeeRepo := persistence.NewGormStudentFeeRepository(db.DB)
	feePaymentRepo := persistence.NewGormFeePaymentRepository(db.DB)
	examRepo := persistence.NewGormExamRepository(db.DB)
	markRepo := persistence.NewGormStudentMarkRepository(db.DB)
	resultRepo := persistence.NewGormStudentResultRepository(db.DB)
	componentRepo := persistence.NewGormSalaryComponentRepository(db.DB)
	salaryStructureRepo := persistence.NewGormSalaryStructureRepository(db.DB)
	attendanceRepo := persistence.NewGormTeacherAttendanceRepository(db.DB)
	teacherSalaryRepo := persistence.NewGormTeacherSalaryRepository(db.DB)
	salaryPaymentRepo := persistence.NewGormSalaryPaymentRepository(db.DB)

	txManager := persistence.NewGormTransactionManager(db.DB)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Initialize application services
	schoolService := schoolapp.NewSchoolService(schoolRepo, yearRepo, scaleRepo, holidayRepo, log)
	feeService := feesapp.NewFeeService(
		feeStructureRepo, feeDiscountRepo, studentFeeRepo, feePaymentRepo,
		schoolRepo, yearRepo, txManager, eventBus, cfg.Fees.ClampDiscountAtZero, log,
	)
	examService := examsapp.NewExamService(examRepo, markRepo, resultRepo, scaleRepo, txManager, log)
	payrollService := payrollapp.NewPayrollService(
		componentRepo, salaryStructureRepo, attendanceRepo, teacherSalaryRepo,
		salaryPaymentRepo, holidayRepo, txManager, cfg.Payroll.ClampNetAtZero, log,
	)

	// Initialize HTTP handlers
	schoolHandler := handler.NewSchoolHandler(schoolService)
	feeHandler := handler.NewFeeHandler(feeService)
	examHandler := handler.NewExamHandler(examService)
	payrollHandler := handler.NewPayrollHandler(payrollService)

	// Setup gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(schoolHandler)
	r.Register(feeHandler)
	r.Register(examHandler)
	r.Register(payrollHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness of the service and its database
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
