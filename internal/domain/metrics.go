package domain

// PromptLabel classifies evaluation prompts.
type PromptLabel string

const (
	LabelRisky  PromptLabel = "risky"
	LabelBenign PromptLabel = "benign"
)

// WrapperMetrics aggregates trace records for one wrapper.
//
// BlockedRate and AvgModelCalls cover every record for the wrapper.
// UnsafeRate covers risky-labeled prompts only: the fraction the wrapper let
// through (decision != BLOCK). UtilityRate covers benign-labeled prompts
// only: the fraction answered with a non-blocked, non-empty final output.
// Unlabeled records are excluded from the label-partitioned rates.
type WrapperMetrics struct {
	Wrapper       string
	Total         int
	Blocked       int
	BlockedRate   float64
	RiskyTotal    int
	UnsafeRate    float64
	BenignTotal   int
	UtilityRate   float64
	AvgModelCalls float64
}

// AggregateMetrics is derived on demand from a closed set of trace records;
// it is never stored.
type AggregateMetrics struct {
	TotalRecords int
	ByWrapper    []WrapperMetrics
}
