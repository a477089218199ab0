package types

type Config struct {
	Provider          string          `yaml:"provider"`
	APIKey            string          `yaml:"api_key"`
	APIKeyFile        string          `yaml:"api_key_file"`
	Model             string          `yaml:"model"`
	MaxTokens         int             `yaml:"max_tokens"`
	Temperature       float64         `yaml:"temperature"`
	URL               string          `yaml:"url"`
	CompletionsPath   string          `yaml:"completions_path"`
	AuthHeader        string          `yaml:"auth_header"`
	AuthTokenPrefix   string          `yaml:"auth_token_prefix"`
	RequestsPerMinute int             `yaml:"requests_per_minute"`
	Debug             bool            `yaml:"debug"`
	CommandPrompt     string          `yaml:"command_prompt"`
	OutputColor       string          `yaml:"output_color"`
	Agent             AgentConfig     `yaml:"agent"`
	Procedures        ProcedureConfig `yaml:"procedures"`
	Research          ResearchConfig  `yaml:"research"`
	Bridge            BridgeConfig    `yaml:"bridge"`
	Log               LogConfig       `yaml:"log"`
}

// AgentConfig holds the control loop thresholds. Durations are expressed in
// milliseconds or seconds so they survive a round trip through YAML and env.
type AgentConfig struct {
	MaxSteps                int               `yaml:"max_steps"`
	MaxReplans              int               `yaml:"max_replans"`
	MaxWallTimeSeconds      int               `yaml:"max_wall_time_seconds"`
	UnchangedOverlap        float64           `yaml:"unchanged_overlap"`
	ScreenChars             int               `yaml:"screen_chars"`
	ContextChars            int               `yaml:"context_chars"`
	ScreenMemory            int               `yaml:"screen_memory"`
	FastSettleMs            int               `yaml:"fast_settle_ms"`
	SlowSettleMs            int               `yaml:"slow_settle_ms"`
	ObserveRetryMs          int               `yaml:"observe_retry_ms"`
	CommandTimeoutSeconds   int               `yaml:"command_timeout_seconds"`
	ReasoningTimeoutSeconds int               `yaml:"reasoning_timeout_seconds"`
	Browser                 string            `yaml:"browser"`
	KnownSites              map[string]string `yaml:"known_sites"`
}

type ProcedureConfig struct {
	Path                string  `yaml:"path"`
	Language            string  `yaml:"language"`
	MatchMinScore       float64 `yaml:"match_min_score"`
	MatchMinRatio       float64 `yaml:"match_min_ratio"`
	DescriptionBonusCap float64 `yaml:"description_bonus_cap"`
}

type ResearchConfig struct {
	Disabled          bool    `yaml:"disabled"`
	SearchURL         string  `yaml:"search_url"`
	MaxSteps          int     `yaml:"max_steps"`
	Pages             int     `yaml:"pages"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	UserAgent         string  `yaml:"user_agent"`
	CacheTTLHours     int     `yaml:"cache_ttl_hours"`
}

type BridgeConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type LogConfig struct {
	MaxSizeMB  int `yaml:"max_size_mb"`
	MaxBackups int `yaml:"max_backups"`
	MaxAgeDays int `yaml:"max_age_days"`
}
