// Package generation holds the prompt and reply handling shared by the
// content generator adapters.
package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
)

// Output sizing for a generation request.
const (
	charsPerToken   = 4
	minOutputTokens = 256
)

// DefaultSystemPrompt is the fallback when no PromptStore is configured.
const DefaultSystemPrompt = `You write text for presentation slides. Every region has a character budget.
Reply with a single JSON object keyed by region kind. Use a string for text regions
and an array of strings for list regions.`

// DefaultUserPrompt is the fallback when no PromptStore is configured.
// It is formatted with the region description and the instruction.
const DefaultUserPrompt = `Slide regions:
%s

Instruction: %s

JSON:`

// Prompts returns the system and user prompts for a request.
// store may be nil; missing prompts fall back to the defaults.
func Prompts(store driven.PromptStore, req driven.GenerationRequest) (system, user string) {
	system = loadPrompt(store, driven.PromptGenerateSystem, DefaultSystemPrompt)
	user = fmt.Sprintf(loadPrompt(store, driven.PromptGenerateUser, DefaultUserPrompt),
		DescribeRegions(req.Regions), req.Prompt)
	return system, user
}

func loadPrompt(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// MaxTokens sizes the reply to twice the regions' combined budget.
func MaxTokens(regions []driven.GenerationRegion) int {
	budget := 0
	for _, r := range regions {
		budget += r.BudgetChars
	}
	maxTokens := budget / charsPerToken * 2
	if maxTokens < minOutputTokens {
		maxTokens = minOutputTokens
	}
	return maxTokens
}

// DescribeRegions renders one line per region for the user prompt.
func DescribeRegions(regions []driven.GenerationRegion) string {
	var b strings.Builder
	for _, r := range regions {
		budget := "no limit"
		if r.BudgetChars > 0 {
			budget = fmt.Sprintf("max %d chars", r.BudgetChars)
			if r.Layout == domain.LayoutList {
				budget += " shared by all items"
			}
		}
		shape := "text"
		if r.Layout == domain.LayoutList {
			shape = "list"
		}
		fmt.Fprintf(&b, "- %s (%s, %s)", r.Kind, shape, budget)
		if !r.Current.IsEmpty() {
			current, _ := json.Marshal(r.Current)
			fmt.Fprintf(&b, ", currently %s", current)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// ParsePatch decodes a model reply into a patch. Code fences and prose around
// the JSON object are tolerated.
func ParsePatch(reply string) (domain.ContentPatch, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: generator reply has no JSON object", domain.ErrInvalidInput)
	}
	var patch domain.ContentPatch
	if err := json.Unmarshal([]byte(reply[start:end+1]), &patch); err != nil {
		return nil, fmt.Errorf("%w: decode generator reply: %v", domain.ErrInvalidInput, err)
	}
	return patch, nil
}
