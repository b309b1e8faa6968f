package wrappers

import (
	"fmt"
	"strings"

	"github.com/calderlane/promptward/internal/domain"
	"github.com/calderlane/promptward/internal/ports"
)

// Keyword blocks prompts containing any banned keyword or phrase as a
// case-insensitive literal substring. No semantic or fuzzy matching is
// attempted, so paraphrases pass through. The check runs on the prompt
// alone, before any model call.
type Keyword struct {
	keywords []string
}

// NewKeyword constructs the wrapper. An empty banned list is a configuration
// error: the keyword wrapper must never run with nothing to block.
func NewKeyword(cfg domain.KeywordConfig) (*Keyword, error) {
	if len(cfg.BannedKeywords) == 0 {
		return nil, fmt.Errorf("keyword wrapper requires banned_keywords")
	}
	keywords := make([]string, 0, len(cfg.BannedKeywords))
	for _, kw := range cfg.BannedKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		keywords = append(keywords, kw)
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("keyword wrapper requires banned_keywords")
	}
	return &Keyword{keywords: keywords}, nil
}

func (w *Keyword) Name() string {
	return domain.WrapperKeyword
}

func (w *Keyword) Evaluate(obs domain.Observation) domain.Verdict {
	prompt := strings.ToLower(obs.Prompt)
	for _, kw := range w.keywords {
		if strings.Contains(prompt, kw) {
			return domain.Verdict{
				Action:        domain.ActionBlock,
				Justification: fmt.Sprintf("Blocked: prompt contained a banned phrase (%q). No model call made.", kw),
				Output:        domain.KeywordBlockOutput,
			}
		}
	}
	v := domain.Verdict{
		Action:        domain.ActionAllow,
		Justification: "Allowed: no banned keywords detected in the prompt.",
	}
	if latest, ok := obs.Latest(); ok {
		v.Output = latest.Output
	}
	return v
}

func (w *Keyword) State() map[string]any {
	return map[string]any{"banned_keywords": append([]string(nil), w.keywords...)}
}

var _ ports.Wrapper = (*Keyword)(nil)
