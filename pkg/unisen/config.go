// config.go loads reporter configuration from the environment.

package unisen

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the environment-driven settings for assembling a reporter.
// Every field can be overridden with a UNISEN_-prefixed variable.
type Config struct {
	APIKey         string        `envconfig:"API_KEY"`
	Endpoint       string        `envconfig:"ENDPOINT" default:"https://notify.playvane.com/"`
	ReleaseStage   string        `envconfig:"RELEASE_STAGE" default:"production"`
	AppVersion     string        `envconfig:"APP_VERSION"`
	NotifyLevel    string        `envconfig:"NOTIFY_LEVEL" default:"error"` // Expected to hold values like "log", "warning", "error"
	QueueSize      int           `envconfig:"QUEUE_SIZE" default:"64"`
	FlushInterval  time.Duration `envconfig:"FLUSH_INTERVAL" default:"100ms"`
	AgentMarker    string        `envconfig:"AGENT_MARKER" default:"com.playvane.unisen"`
	SessionDBPath  string        `envconfig:"SESSION_DB_PATH"`
	MaxBreadcrumbs int           `envconfig:"MAX_BREADCRUMBS" default:"25"`
}

// LoadConfig reads configuration from UNISEN_-prefixed environment variables.
func LoadConfig() (Config, error) {
	var config Config
	if err := envconfig.Process("unisen", &config); err != nil {
		return Config{}, fmt.Errorf("error processing env config: %w", err)
	}
	return config, nil
}
