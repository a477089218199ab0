package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kardolus/deskpilot/internal"
	"github.com/kardolus/deskpilot/types"
	"gopkg.in/yaml.v3"
)

const (
	defaultProvider          = "openai"
	defaultModel             = "gpt-4o-mini"
	defaultMaxTokens         = 2048
	defaultTemperature       = 0.2
	defaultURL               = "https://api.openai.com"
	defaultCompletionsPath   = "/v1/chat/completions"
	defaultAuthHeader        = "Authorization"
	defaultAuthTokenPrefix   = "Bearer "
	defaultRequestsPerMinute = 30
	defaultCommandPrompt     = "[%time] > "

	defaultMaxSteps         = 15
	defaultMaxReplans       = 2
	defaultUnchangedOverlap = 0.8
	defaultScreenChars      = 3000
	defaultContextChars     = 500
	defaultScreenMemory     = 5
	defaultFastSettleMs     = 500
	defaultSlowSettleMs     = 1500
	defaultObserveRetryMs   = 2000
	defaultCommandTimeout   = 30
	defaultReasoningTimeout = 60
	defaultBrowser          = "chrome"

	defaultLanguage            = "en"
	defaultMatchMinScore       = 3.0
	defaultMatchMinRatio       = 0.4
	defaultDescriptionBonusCap = 1.5

	defaultSearchURL         = "https://html.duckduckgo.com/html/"
	defaultResearchMaxSteps  = 5
	defaultResearchPages     = 3
	defaultResearchRate      = 2.0
	defaultResearchTimeout   = 15
	defaultResearchUserAgent = "Mozilla/5.0 (X11; Linux x86_64) deskpilot"
	defaultResearchCacheTTL  = 168

	defaultBridgeURL     = "http://127.0.0.1:8765"
	defaultBridgeTimeout = 20

	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAgeDays = 14

	configFileName     = "config.yaml"
	procedureFileName  = "procedures.json"
	maxAPIKeyFileBytes = 10 * 1024
)

//go:generate mockgen -destination=configmocks_test.go -package=config_test github.com/kardolus/deskpilot/config ConfigStore
type ConfigStore interface {
	Read() (types.Config, error)
	ReadDefaults() types.Config
	Write(types.Config) error
}

// Ensure FileIO implements ConfigStore interface
var _ ConfigStore = &FileIO{}

type FileIO struct {
	configFilePath string
	dataHome       string
}

func New() *FileIO {
	configHome, _ := internal.GetConfigHome()
	dataHome, _ := internal.GetDataHome()

	return &FileIO{
		configFilePath: filepath.Join(configHome, configFileName),
		dataHome:       dataHome,
	}
}

func (f *FileIO) WithConfigPath(configFilePath string) *FileIO {
	f.configFilePath = configFilePath
	return f
}

func (f *FileIO) WithDataHome(dataHome string) *FileIO {
	f.dataHome = dataHome
	return f
}

func (f *FileIO) Path() string {
	return f.configFilePath
}

func (f *FileIO) Read() (types.Config, error) {
	path, err := internal.ExpandPath(f.configFilePath)
	if err != nil {
		return types.Config{}, err
	}
	return parseFile(path)
}

func (f *FileIO) ReadDefaults() types.Config {
	return types.Config{
		Provider:          defaultProvider,
		Model:             defaultModel,
		MaxTokens:         defaultMaxTokens,
		Temperature:       defaultTemperature,
		URL:               defaultURL,
		CompletionsPath:   defaultCompletionsPath,
		AuthHeader:        defaultAuthHeader,
		AuthTokenPrefix:   defaultAuthTokenPrefix,
		RequestsPerMinute: defaultRequestsPerMinute,
		CommandPrompt:     defaultCommandPrompt,
		Agent: types.AgentConfig{
			MaxSteps:                defaultMaxSteps,
			MaxReplans:              defaultMaxReplans,
			UnchangedOverlap:        defaultUnchangedOverlap,
			ScreenChars:             defaultScreenChars,
			ContextChars:            defaultContextChars,
			ScreenMemory:            defaultScreenMemory,
			FastSettleMs:            defaultFastSettleMs,
			SlowSettleMs:            defaultSlowSettleMs,
			ObserveRetryMs:          defaultObserveRetryMs,
			CommandTimeoutSeconds:   defaultCommandTimeout,
			ReasoningTimeoutSeconds: defaultReasoningTimeout,
			Browser:                 defaultBrowser,
			KnownSites: map[string]string{
				"github":    "https://github.com",
				"gmail":     "https://mail.google.com",
				"drive":     "https://drive.google.com",
				"classroom": "https://classroom.google.com",
				"youtube":   "https://www.youtube.com",
			},
		},
		Procedures: types.ProcedureConfig{
			Path:                filepath.Join(f.dataHome, procedureFileName),
			Language:            defaultLanguage,
			MatchMinScore:       defaultMatchMinScore,
			MatchMinRatio:       defaultMatchMinRatio,
			DescriptionBonusCap: defaultDescriptionBonusCap,
		},
		Research: types.ResearchConfig{
			SearchURL:         defaultSearchURL,
			MaxSteps:          defaultResearchMaxSteps,
			Pages:             defaultResearchPages,
			RequestsPerSecond: defaultResearchRate,
			TimeoutSeconds:    defaultResearchTimeout,
			UserAgent:         defaultResearchUserAgent,
			CacheTTLHours:     defaultResearchCacheTTL,
		},
		Bridge: types.BridgeConfig{
			URL:            defaultBridgeURL,
			TimeoutSeconds: defaultBridgeTimeout,
		},
		Log: types.LogConfig{
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}

func (f *FileIO) Write(config types.Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.configFilePath), 0o700); err != nil {
		return err
	}

	return os.WriteFile(f.configFilePath, data, 0o600)
}

// ReadAPIKeyFile returns the trimmed contents of a small regular file holding
// a provider API key.
func ReadAPIKeyFile(path string) (string, error) {
	clean, err := internal.ExpandPath(path)
	if err != nil {
		return "", err
	}
	clean = filepath.Clean(clean)

	fh, err := os.Open(clean)
	if err != nil {
		return "", fmt.Errorf("failed to open api key file: %w", err)
	}
	defer fh.Close()

	st, err := fh.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat api key file: %w", err)
	}
	if !st.Mode().IsRegular() {
		return "", errors.New("api key file must be a regular file")
	}
	if st.Size() > maxAPIKeyFileBytes {
		return "", fmt.Errorf("api key file too large (max %d bytes)", maxAPIKeyFileBytes)
	}

	b, err := io.ReadAll(io.LimitReader(fh, maxAPIKeyFileBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read api key file: %w", err)
	}

	key := strings.TrimSpace(string(b))
	if key == "" {
		return "", errors.New("api key file is empty")
	}
	return key, nil
}

func parseFile(fileName string) (types.Config, error) {
	var result types.Config

	buf, err := os.ReadFile(fileName)
	if err != nil {
		return types.Config{}, err
	}

	if err := yaml.Unmarshal(buf, &result); err != nil {
		return types.Config{}, err
	}

	return result, nil
}
