package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// secretKeys maps secret file names onto configuration keys
var secretKeys = map[string]string{
	"video_api_key":         "video.remote.api_key",
	"database_password":     "database.password",
	"redis_password":        "redis.password",
	"aws_access_key_id":     "aws.access_key_id",
	"aws_secret_access_key": "aws.secret_access_key",
}

// loadDotEnv loads .env files into the process environment. Variables
// already set in the environment win over the file.
func loadDotEnv() {
	files := []string{".env"}
	if env := os.Getenv(EnvPrefix + "_APP_ENVIRONMENT"); env != "" {
		files = append([]string{".env." + env}, files...)
	}

	for _, f := range files {
		// A missing file is the common case outside local development
		_ = godotenv.Load(f)
	}
}

// applySecrets overlays credentials read from mounted secret files. The
// SECRETS_DIR environment variable takes precedence over app.secrets_dir.
// A secret never replaces a value set through the environment.
func applySecrets(v *viper.Viper, dir string) {
	if override := os.Getenv("SECRETS_DIR"); override != "" {
		dir = override
	}
	if dir == "" {
		return
	}

	for name, key := range secretKeys {
		if _, set := os.LookupEnv(envName(key)); set {
			continue
		}
		if value := readSecret(dir, name); value != "" {
			v.Set(key, value)
		}
	}
}

// readSecret returns the trimmed content of a secret file, or "" if the
// file cannot be read
func readSecret(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
