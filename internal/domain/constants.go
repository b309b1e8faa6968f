package domain

// Wrapper identifiers. The set is closed: adding a policy means adding a
// name here and a case in the registry.
const (
	WrapperNoop        = "noop"
	WrapperKeyword     = "keyword"
	WrapperHistory     = "history"
	WrapperQueryBudget = "query_budget"
)

// Canonical outputs for requests that never reach the model.
const (
	EmptyPromptOutput     = "[Empty prompt]"
	KeywordBlockOutput    = "[Blocked by keyword wrapper]"
	CallCeilingOutput     = "[Blocked: call budget exhausted]"
	BudgetExhaustedOutput = "[Blocked: no usable output within query budget]"
)

// Defaults applied by config hydration.
const (
	DefaultModelName      = "google/gemini-2.5-flash-lite"
	DefaultBaseURL        = "https://openrouter.ai/api/v1"
	DefaultAuthEnvVar     = "OPENROUTER_API_KEY"
	DefaultMaxTokens      = 1024
	DefaultTimeoutSeconds = 60
	DefaultMaxModelCalls  = 10
	DefaultHistoryK       = 3
	DefaultMaxQueries     = 2
	DefaultTraceFile      = "traces.jsonl"
)

// MaxQueriesOverrideLimit caps the per-request query budget override.
const MaxQueriesOverrideLimit = 10
