package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const defaultEnvironmentName = "default"

// ResolvedEnvironment is a fully-resolved environment with concrete values:
// the snowprep.toml entry merged with `.env.<name>` and process environment
// overrides. Password is carried here but never written back anywhere.
type ResolvedEnvironment struct {
	Name       string
	Account    string
	User       string
	Password   string
	Role       string
	Warehouse  string
	Variant    string
	DotenvPath string
	FromConfig bool
	FromDotenv bool
}

// ResolveEnvironment resolves a named environment into concrete credentials.
//
// Precedence, lowest to highest: snowprep.toml entry, `.env.<name>` file,
// process environment (SNOWFLAKE_ACCOUNT, SNOWFLAKE_USERNAME,
// SNOWFLAKE_PASSWORD, SNOWFLAKE_ROLE, SNOWFLAKE_WAREHOUSE).
func ResolveEnvironment(config *Config, name string) (*ResolvedEnvironment, error) {
	envName := strings.TrimSpace(name)
	if envName == "" {
		if config != nil && config.DefaultEnvironment != "" {
			envName = config.DefaultEnvironment
		} else {
			envName = defaultEnvironmentName
		}
	}

	resolved := &ResolvedEnvironment{Name: envName}

	if config != nil && config.Environments != nil {
		if envConfig, ok := config.Environments[envName]; ok {
			resolved.Account = envConfig.Account
			resolved.User = envConfig.User
			resolved.Role = envConfig.Role
			resolved.Warehouse = envConfig.Warehouse
			resolved.Variant = envConfig.Variant
			resolved.FromConfig = true
		}
	}
	if resolved.Variant == "" && config != nil {
		resolved.Variant = config.DefaultVariant
	}

	baseDir := ""
	if config != nil {
		baseDir = config.ConfigDir()
	}
	if baseDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			baseDir = cwd
		}
	}
	resolved.DotenvPath = filepath.Join(baseDir, ".env."+envName)

	if info, err := os.Stat(resolved.DotenvPath); err == nil && !info.IsDir() {
		values, err := godotenv.Read(resolved.DotenvPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", resolved.DotenvPath, err)
		}
		resolved.FromDotenv = true
		applyValues(resolved, func(key string) string { return values[key] })
	} else if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to access %s: %w", resolved.DotenvPath, err)
	}

	// Process environment wins over everything
	applyValues(resolved, os.Getenv)

	return resolved, nil
}

func applyValues(resolved *ResolvedEnvironment, get func(string) string) {
	if value := get("SNOWFLAKE_ACCOUNT"); value != "" {
		resolved.Account = value
	}
	if value := get("SNOWFLAKE_USERNAME"); value != "" {
		resolved.User = value
	}
	// SNOWFLAKE_USER is the name gosnowflake tooling tends to use
	if resolved.User == "" {
		if value := get("SNOWFLAKE_USER"); value != "" {
			resolved.User = value
		}
	}
	if value := get("SNOWFLAKE_PASSWORD"); value != "" {
		resolved.Password = value
	}
	if value := get("SNOWFLAKE_ROLE"); value != "" {
		resolved.Role = value
	}
	if value := get("SNOWFLAKE_WAREHOUSE"); value != "" {
		resolved.Warehouse = value
	}
}
