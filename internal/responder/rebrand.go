package responder

import (
	"fmt"
	"strings"

	"github.com/tracy-ai/tracybot/internal/config"
)

// Rebrander rewrites provider brand names in model output. Rules apply in
// order, so a longer phrase must come before a shorter phrase it contains.
type Rebrander struct {
	rules []config.Replacement
}

// NewRebrander copies rules and rejects rules with an empty source string.
func NewRebrander(rules []config.Replacement) (*Rebrander, error) {
	copied := make([]config.Replacement, 0, len(rules))
	for i, r := range rules {
		if r.From == "" {
			return nil, fmt.Errorf("rebrand rule %d has an empty source string", i)
		}
		copied = append(copied, r)
	}
	return &Rebrander{rules: copied}, nil
}

// Apply returns s with every rule applied.
func (r *Rebrander) Apply(s string) string {
	for _, rule := range r.rules {
		s = strings.ReplaceAll(s, rule.From, rule.To)
	}
	return s
}
