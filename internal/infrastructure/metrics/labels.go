package metrics

import (
	"bufio"
	"fmt"
	"os"

	"github.com/calderlane/promptward/internal/domain"
)

// LoadPrompts reads a labeled prompt set: plain text, one prompt per line,
// blank lines skipped.
func LoadPrompts(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prompt set: %w", err)
	}
	defer file.Close()

	var prompts []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); NormalizePrompt(line) != "" {
			prompts = append(prompts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read prompt set: %w", err)
	}
	return prompts, nil
}

// LoadLabels builds the prompt→label mapping from the risky and benign
// prompt files. Either path may be empty. A prompt listed in both sets keeps
// the risky label.
func LoadLabels(riskyPath, benignPath string) (map[string]domain.PromptLabel, error) {
	labels := make(map[string]domain.PromptLabel)
	if benignPath != "" {
		prompts, err := LoadPrompts(benignPath)
		if err != nil {
			return nil, err
		}
		for _, p := range prompts {
			labels[NormalizePrompt(p)] = domain.LabelBenign
		}
	}
	if riskyPath != "" {
		prompts, err := LoadPrompts(riskyPath)
		if err != nil {
			return nil, err
		}
		for _, p := range prompts {
			labels[NormalizePrompt(p)] = domain.LabelRisky
		}
	}
	return labels, nil
}
