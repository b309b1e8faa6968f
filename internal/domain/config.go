package domain

// Config mirrors ~/.promptward/config.yaml.
type Config struct {
	ConfigFormatVersion string          `yaml:"config_format_version"`
	Model               ModelSettings   `yaml:"model"`
	Wrappers            WrapperSettings `yaml:"wrappers"`
	Logging             LoggingSettings `yaml:"logging"`
}

// ModelSettings identifies the black-box model and how to reach it.
type ModelSettings struct {
	Name           string `yaml:"name"`
	BaseURL        string `yaml:"base_url"`
	AuthEnvVar     string `yaml:"auth_env_var"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// WrapperSettings holds per-wrapper configuration plus the loop-level hard
// ceiling on model calls per request.
type WrapperSettings struct {
	Default       string            `yaml:"default"`
	MaxModelCalls int               `yaml:"max_model_calls"`
	Keyword       KeywordConfig     `yaml:"keyword"`
	History       HistoryConfig     `yaml:"history"`
	QueryBudget   QueryBudgetConfig `yaml:"query_budget"`
}

// KeywordConfig configures the keyword wrapper. The banned list is
// safety-relevant and is never defaulted silently.
type KeywordConfig struct {
	BannedKeywords []string `yaml:"banned_keywords"`
}

// HistoryConfig configures the history wrapper's bounded buffer.
type HistoryConfig struct {
	K int `yaml:"k"`
}

// QueryBudgetConfig configures the query_budget wrapper.
type QueryBudgetConfig struct {
	MaxQueries int `yaml:"max_queries"`
}

// LoggingSettings configures the trace log sink.
type LoggingSettings struct {
	Dir       string `yaml:"log_dir"`
	TraceFile string `yaml:"trace_file"`
	// Store selects the trace backend: "file" (JSONL, default) or "sqlite".
	Store string `yaml:"store"`
}
