package di

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"face-attendance/application/serviceimpl"
	"face-attendance/domain/repositories"
	"face-attendance/domain/services"
	"face-attendance/infrastructure/ledger"
	"face-attendance/infrastructure/postgres"
	"face-attendance/infrastructure/pyface"
	"face-attendance/infrastructure/storage"
	"face-attendance/infrastructure/worker"
	"face-attendance/interfaces/api/handlers"
	"face-attendance/pkg/config"
	"face-attendance/pkg/logger"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	ImageStore     storage.ImageStore
	Ledger         services.AttendanceLedger
	ExternalClient *pyface.Client

	// Repositories
	StudentRepository repositories.StudentRepository

	// Services
	StudentService     services.StudentService
	TrainingService    services.TrainingService
	RecognitionService services.RecognitionService
	LabelMapper        services.LabelMapper

	// Workers
	RecognitionWorker *worker.RecognitionWorker
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Startup("config_loaded", "Configuration loaded", nil)
	return nil
}

func (c *Container) initInfrastructure() error {
	// Initialize Database
	dbConfig := postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Startup("db_connected", "Database connected", nil)

	// Run migrations
	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Startup("db_migrated", "Database migrated", nil)

	// Initialize image store
	imageStore, err := storage.NewLocalImageStore(c.Config.Storage.ImageDir)
	if err != nil {
		return err
	}
	c.ImageStore = imageStore
	logger.Startup("image_store_initialized", "Image store initialized", map[string]interface{}{"dir": c.Config.Storage.ImageDir})

	// Initialize attendance ledger
	attendanceLedger := ledger.NewExcelLedger(c.Config.Storage.LedgerPath)
	c.Ledger = attendanceLedger
	logger.Startup("ledger_initialized", "Attendance ledger initialized", map[string]interface{}{"path": attendanceLedger.Path()})

	// Initialize external recognizer client
	c.ExternalClient = pyface.NewClient(
		c.Config.External.ScriptPath,
		c.Config.External.Command,
		time.Duration(c.Config.External.TimeoutSeconds)*time.Second,
	)
	if c.ExternalClient.Available() {
		logger.Startup("external_available", "External recognizer available", nil)
	} else {
		logger.StartupWarn("external_unavailable", "External recognizer not available, native classifier only", nil)
	}

	return nil
}

func (c *Container) initRepositories() error {
	c.StudentRepository = postgres.NewStudentRepository(c.DB)
	logger.Startup("repositories_initialized", "Repositories initialized", nil)
	return nil
}

func (c *Container) initServices() error {
	c.StudentService = serviceimpl.NewStudentService(c.StudentRepository, c.ImageStore)
	c.TrainingService = serviceimpl.NewTrainingService(c.StudentRepository, c.ExternalClient, c.Config.Storage)
	c.LabelMapper = serviceimpl.NewLabelMapper(c.StudentRepository)

	c.RecognitionWorker = worker.NewRecognitionWorker(
		c.LabelMapper,
		c.Ledger,
		c.Config.Storage,
		c.Config.Recognition,
	)
	c.RecognitionService = serviceimpl.NewRecognitionService(c.RecognitionWorker, c.ExternalClient)

	logger.Startup("services_initialized", "Services initialized", nil)
	return nil
}

func (c *Container) Cleanup() error {
	logger.Startup("cleanup_started", "Starting cleanup...", nil)

	// Stop the recognition session if one is running
	if c.RecognitionWorker != nil {
		if err := c.RecognitionWorker.Stop(); err != nil && !errors.Is(err, services.ErrNotRunning) {
			logger.StartupWarn("worker_stop_failed", "Failed to stop recognition worker", map[string]interface{}{"error": err.Error()})
		}
	}

	// Close database connection
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.StartupWarn("db_close_failed", "Failed to close database connection", map[string]interface{}{"error": err.Error()})
			} else {
				logger.Startup("db_closed", "Database connection closed", nil)
			}
		}
	}

	logger.Startup("cleanup_completed", "Cleanup completed", nil)
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		StudentService:     c.StudentService,
		TrainingService:    c.TrainingService,
		RecognitionService: c.RecognitionService,
		AttendanceLedger:   c.Ledger,
	}
}
