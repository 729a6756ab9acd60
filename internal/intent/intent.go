// Package intent decides whether a user message asks who made, owns or built
// the bot.
package intent

import (
	"fmt"
	"regexp"
)

// OwnershipPatterns is the built-in list of "who made you" questions.
// Matching is case-insensitive.
var OwnershipPatterns = []string{
	`\bwho\s+(made|created|built|developed|designed|programmed|trained|owns|coded)\s+you\b`,
	`\bwho\s+(is|are)\s+your\s+(creator|creators|owner|owners|developer|developers|maker|makers|author|authors)\b`,
	`\bwho('s|\s+is)\s+behind\s+you\b`,
	`\bwho\s+do\s+you\s+belong\s+to\b`,
	`\bwhere\s+(do|did)\s+you\s+come\s+from\b`,
	`\b(which|what)\s+(company|team|organi[sz]ation)\s+(made|created|built|developed|owns)\s+you\b`,
	`\bwho\s+is\s+responsible\s+for\s+(you|creating\s+you)\b`,
}

// Classifier matches text against a fixed, immutable list of patterns.
type Classifier struct {
	patterns []*regexp.Regexp
}

// New compiles the given patterns case-insensitively. It fails on the first
// pattern that does not compile.
func New(patterns ...string) (*Classifier, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("invalid intent pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &Classifier{patterns: compiled}, nil
}

// Default returns a classifier over OwnershipPatterns.
func Default() *Classifier {
	c, err := New(OwnershipPatterns...)
	if err != nil {
		panic(err)
	}
	return c
}

// Match reports whether text matches any pattern.
func (c *Classifier) Match(text string) bool {
	for _, re := range c.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
