package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	Recognition RecognitionConfig
	External    ExternalConfig
}

type AppConfig struct {
	Name string
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// StorageConfig gathers every filesystem artifact the service produces.
type StorageConfig struct {
	ImageDir       string // reference face images
	ModelPath      string // trained classifier artifact
	LabelNamesPath string // labelId=name side file for legacy consumers
	LedgerPath     string // attendance spreadsheet
	CascadePath    string // Haar cascade for face detection
}

type RecognitionConfig struct {
	CameraDevice        int     // video capture device index
	ConfidenceThreshold float64 // LBPH distance gate, smaller = better match
	DisplayEnabled      bool    // paint frames into a local window when available
}

type ExternalConfig struct {
	ScriptPath     string // helper script invoked as <cmd> <script> <verb> <arg>
	Command        string // force a specific interpreter command, empty = probe
	TimeoutSeconds int    // deadline for a single subprocess run
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists (optional for production)
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cameraDevice, _ := strconv.Atoi(getEnv("CAMERA_DEVICE", "0"))
	threshold, _ := strconv.ParseFloat(getEnv("CONFIDENCE_THRESHOLD", "80.0"), 64)
	externalTimeout, _ := strconv.Atoi(getEnv("EXTERNAL_TIMEOUT_SECONDS", "120"))

	config := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "Face Attendance"),
			Port: getEnv("APP_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "face_attendance"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Storage: StorageConfig{
			ImageDir:       getEnv("IMAGE_DIR", "student_images"),
			ModelPath:      getEnv("MODEL_PATH", "trained_model.yml"),
			LabelNamesPath: getEnv("LABEL_NAMES_PATH", "label_names.txt"),
			LedgerPath:     getEnv("LEDGER_PATH", "attendance.xlsx"),
			CascadePath:    getEnv("CASCADE_PATH", "haarcascade_frontalface_default.xml"),
		},
		Recognition: RecognitionConfig{
			CameraDevice:        cameraDevice,
			ConfidenceThreshold: threshold,
			DisplayEnabled:      getEnv("DISPLAY_ENABLED", "false") == "true",
		},
		External: ExternalConfig{
			ScriptPath:     getEnv("EXTERNAL_SCRIPT_PATH", "python/face_recognition_service.py"),
			Command:        getEnv("EXTERNAL_COMMAND", ""),
			TimeoutSeconds: externalTimeout,
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
