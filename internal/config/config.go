package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Init initializes configuration with viper
func Init() {
	viper.SetDefault("root", "~/Public/bsuir-rt-draft/bsuir-rt")
	viper.SetDefault("modules", []string{"backend", "rules", "service", "frontend"})
	viper.SetDefault("source_dir", "src")
	viper.SetDefault("manifest", "manifest.tex")
	viper.SetDefault("extension", ".tex")
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("watch_debounce", 200*time.Millisecond)

	viper.SetConfigName("rtutils")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "rtutils"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("RTUTILS")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()
}

// GetRoot returns the module checkout prefix with tilde expansion
func GetRoot() string {
	return expandTilde(viper.GetString("root"))
}

// GetModules returns the default module list
func GetModules() []string {
	return viper.GetStringSlice("modules")
}

// GetSourceDir returns the name of a project's source subdirectory
func GetSourceDir() string {
	return viper.GetString("source_dir")
}

// GetManifest returns the root document name
func GetManifest() string {
	return viper.GetString("manifest")
}

// GetExtension returns the extension appended to extension-less references
func GetExtension() string {
	return viper.GetString("extension")
}

// GetLogLevel returns the tracing level
func GetLogLevel() string {
	return viper.GetString("log_level")
}

// GetWatchDebounce returns how long watch mode waits for a burst of changes to settle
func GetWatchDebounce() time.Duration {
	return viper.GetDuration("watch_debounce")
}

// SetLogLevel sets the tracing level at runtime
func SetLogLevel(level string) {
	viper.Set("log_level", level)
}

// ProjectDirs returns the source directories to document. Explicit
// arguments win; otherwise one directory per configured module:
// <root>-<module>/<source_dir>.
func ProjectDirs(args []string) []string {
	if len(args) > 0 {
		dirs := make([]string, 0, len(args))
		for _, arg := range args {
			dirs = append(dirs, expandTilde(arg))
		}
		return dirs
	}

	root := GetRoot()
	sourceDir := GetSourceDir()
	modules := GetModules()
	dirs := make([]string, 0, len(modules))
	for _, module := range modules {
		dirs = append(dirs, filepath.Join(root+"-"+module, sourceDir))
	}
	return dirs
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
