// pkg/config/server.go
package config

import "time"

// ServerConfig holds HTTP server and upload handling parameters
type ServerConfig struct {
	Port           int
	UploadDir      string
	AllowedOrigins []string
	MaxUploadBytes int64

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// PipelineConfig holds tunables for pipeline execution
type PipelineConfig struct {
	// ClusterTimeout bounds the k-means convergence loop, the only
	// stage without a natural upper bound on work.
	ClusterTimeout time.Duration
}

// LoadServerConfig loads HTTP server configuration from environment variables
func LoadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvAsInt("SERVER_PORT", 8080),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		AllowedOrigins: getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 64<<20),

		ReadTimeout:     time.Duration(getEnvAsInt("SERVER_READ_TIMEOUT_SECONDS", 60)) * time.Second,
		WriteTimeout:    time.Duration(getEnvAsInt("SERVER_WRITE_TIMEOUT_SECONDS", 120)) * time.Second,
		ShutdownTimeout: time.Duration(getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 15)) * time.Second,
	}
}

// LoadPipelineConfig loads pipeline tunables from environment variables
func LoadPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		ClusterTimeout: time.Duration(getEnvAsInt("CLUSTER_TIMEOUT_SECONDS", 30)) * time.Second,
	}
}
