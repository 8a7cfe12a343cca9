package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment        string `envconfig:"ENV" default:"development"`
	Port               string `envconfig:"PORT" default:"8080"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	DBAutoMigrate      bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`

	// Session settings. AuthSecret wins over AuthSecretName when both are set.
	AuthSecret        string        `envconfig:"AUTH_SECRET"`
	AuthSecretName    string        `envconfig:"AUTH_SECRET_NAME"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	SessionCookieName string        `envconfig:"SESSION_COOKIE_NAME" default:"lms_session"`

	// Only the course owner or an admin may edit a course when enabled.
	EnforceCourseOwnership bool `envconfig:"ENFORCE_COURSE_OWNERSHIP" default:"true"`

	// Object storage (any S3-compatible endpoint)
	S3URL          string `envconfig:"S3_URL" required:"true"`
	S3PublicURL    string `envconfig:"S3_PUBLIC_URL"`
	S3Bucket       string `envconfig:"S3_BUCKET" required:"true"`
	S3Region       string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey    string `envconfig:"S3_ACCESS_KEY" required:"true"`
	S3SecretKey    string `envconfig:"S3_SECRET_KEY" required:"true"`
	UploadMaxBytes int64  `envconfig:"UPLOAD_MAX_BYTES" default:"536870912"`

	// Google Cloud settings. Events are only logged when GCPProjectID is empty.
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	GCPCredentialsFile string `envconfig:"GCP_CREDENTIALS_FILE"`
	PubSubChapterTopic string `envconfig:"PUBSUB_CHAPTER_TOPIC" default:"chapter-events"`
	PubSubCourseTopic  string `envconfig:"PUBSUB_COURSE_TOPIC" default:"course-events"`
	PubSubUploadTopic  string `envconfig:"PUBSUB_UPLOAD_TOPIC" default:"upload-events"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the app runs against local infrastructure.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// PublicObjectURL returns the base URL uploaded objects are served from.
func (c *Config) PublicObjectURL() string {
	if c.S3PublicURL != "" {
		return c.S3PublicURL
	}
	return c.S3URL + "/" + c.S3Bucket
}
