package claudecode

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/martinemde/llmbridge/provider"
)

// Rule maps message keywords, machine codes, and HTTP-like statuses to one
// failure category. Keywords are matched case-insensitively as substrings;
// codes and statuses are matched exactly.
type Rule struct {
	Category provider.Category `yaml:"category"`
	Keywords []string          `yaml:"keywords,omitempty"`
	Codes    []string          `yaml:"codes,omitempty"`
	Statuses []int             `yaml:"statuses,omitempty"`
}

// RetryRule is the narrower transience predicate: which failures are worth
// reattempting at all. Kept separate from classification, since a retryable
// failure that exhausts its attempts is still classified for the final
// user-facing message.
type RetryRule struct {
	Keywords []string `yaml:"keywords,omitempty"`
	Codes    []string `yaml:"codes,omitempty"`
}

// Ruleset is the classifier's keyword tables. The matching wording comes
// from free-form CLI and SDK output and may drift across tool versions, so
// the tables are configuration data rather than hard-coded logic: ship the
// defaults, override from YAML when the tool's wording changes.
type Ruleset struct {
	// Rules are evaluated in order; the first match wins.
	Rules     []Rule    `yaml:"classify"`
	Retryable RetryRule `yaml:"retryable"`
}

// DefaultRuleset returns the built-in tables for the Claude Code CLI.
func DefaultRuleset() Ruleset {
	return Ruleset{
		Rules: []Rule{
			{
				Category: provider.CategoryAuthRequired,
				Keywords: []string{
					"not authenticated", "auth_required", "authentication",
					"unauthorized", "session expired", "invalid token",
					"login required", "please authenticate",
				},
				Codes:    []string{"AUTH_REQUIRED", "UNAUTHORIZED"},
				Statuses: []int{401},
			},
			{
				Category: provider.CategoryCLIMissing,
				Keywords: []string{"command not found", "enoent", "not found", "spawn claude"},
			},
			{
				Category: provider.CategoryPermissionDenied,
				Keywords: []string{"eacces", "permission denied"},
			},
			{
				Category: provider.CategoryTimeout,
				Keywords: []string{"timeout", "etimedout", "timed out"},
				Codes:    []string{"ETIMEDOUT", "TIMEOUT"},
			},
			{
				Category: provider.CategoryNetwork,
				Keywords: []string{"econnrefused", "econnreset", "enotfound", "network", "socket hang up"},
				Codes:    []string{"ECONNREFUSED", "ECONNRESET", "ENOTFOUND"},
			},
			{
				Category: provider.CategoryAccessDenied,
				Keywords: []string{"access denied", "forbidden", "not authorized"},
				Statuses: []int{403},
			},
		},
		Retryable: RetryRule{
			Keywords: []string{
				"spawn", "epipe", "sigterm", "sigkill", "econnreset",
				"socket hang up", "network", "rate limit", "overloaded",
				"temporarily unavailable",
			},
			Codes: []string{"EAGAIN", "EMFILE", "ENFILE"},
		},
	}
}

// LoadRuleset reads rule tables from a YAML file. Sections absent from the
// file keep the built-in defaults.
func LoadRuleset(path string) (Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Ruleset{}, fmt.Errorf("failed to read ruleset %s: %w", path, err)
	}

	var loaded Ruleset
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Ruleset{}, fmt.Errorf("failed to parse ruleset %s: %w", path, err)
	}

	defaults := DefaultRuleset()
	if len(loaded.Rules) == 0 {
		loaded.Rules = defaults.Rules
	}
	if len(loaded.Retryable.Keywords) == 0 && len(loaded.Retryable.Codes) == 0 {
		loaded.Retryable = defaults.Retryable
	}
	return loaded, nil
}
