package internal

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
)

const (
	ConfigHomeEnv    = "DESKPILOT_CONFIG_HOME"
	DataHomeEnv      = "DESKPILOT_DATA_HOME"
	CacheHomeEnv     = "DESKPILOT_CACHE_HOME"
	DefaultConfigDir = ".deskpilot"
	DefaultDataDir   = "data"
	DefaultCacheDir  = "cache"
	RunIDLength      = 8
)

// NewRunID returns a short identifier used to correlate the log lines of one goal.
func NewRunID() string {
	return uuid.New().String()[:RunIDLength]
}

// GetConfigHome is ~/.deskpilot unless DESKPILOT_CONFIG_HOME says otherwise.
func GetConfigHome() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return fromEnv(ConfigHomeEnv, filepath.Join(homeDir, DefaultConfigDir))
}

// GetDataHome holds the procedure store and the chat transcript.
func GetDataHome() (string, error) {
	return underConfigHome(DataHomeEnv, DefaultDataDir)
}

// GetCacheHome holds logs, readline history and the research cache.
func GetCacheHome() (string, error) {
	return underConfigHome(CacheHomeEnv, DefaultCacheDir)
}

func underConfigHome(env, dir string) (string, error) {
	configHome, err := GetConfigHome()
	if err != nil {
		return "", err
	}
	return fromEnv(env, filepath.Join(configHome, dir))
}

func fromEnv(env, fallback string) (string, error) {
	if v := os.Getenv(env); v != "" {
		return ExpandPath(v)
	}
	return ExpandPath(fallback)
}

// ExpandPath resolves a leading ~ against the user's home directory.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	return homedir.Expand(path)
}
