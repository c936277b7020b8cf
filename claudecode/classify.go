package claudecode

import (
	"errors"
	"strings"

	"github.com/martinemde/llmbridge/provider"
)

// remediation maps each failure category to a fixed actionable message. The
// original error text is appended to it, never discarded.
var remediation = map[provider.Category]string{
	provider.CategoryAuthRequired:     "Claude Code CLI is not authenticated. Run 'claude login' to authenticate, then retry",
	provider.CategoryCLIMissing:       "Claude Code CLI not found. Install it with 'npm install -g @anthropic-ai/claude-code' and make sure 'claude' is on your PATH",
	provider.CategoryPermissionDenied: "Permission denied running the Claude Code CLI. Check the executable's permissions and your working directory",
	provider.CategoryTimeout:          "Claude Code CLI request timed out. Raise timeoutMs in the project settings or simplify the request",
	provider.CategoryNetwork:          "Network failure talking to Anthropic. Check your connection and proxy settings, then retry",
	provider.CategoryAccessDenied:     "Access denied by the Anthropic API. Your account may not have access to the requested model",
	provider.CategoryUnclassified:     "Claude Code CLI request failed",
}

// Classify maps a raw failure to exactly one category. Pure and total:
// anything no rule matches is CategoryUnclassified. Rules are evaluated in
// table order because keywords overlap (an auth message may mention the
// network); the first match wins.
func (rs Ruleset) Classify(err error) provider.Category {
	if err == nil {
		return provider.CategoryUnclassified
	}
	msg := strings.ToLower(err.Error())
	code, status := errorCode(err)

	for _, rule := range rs.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(msg, kw) {
				return rule.Category
			}
		}
		for _, c := range rule.Codes {
			if code == c {
				return rule.Category
			}
		}
		for _, s := range rule.Statuses {
			if status == s {
				return rule.Category
			}
		}
	}
	return provider.CategoryUnclassified
}

// IsRetryable reports whether a failure is transient enough to reattempt.
// Narrower than Classify: transience and terminal user messaging are
// different questions.
func (rs Ruleset) IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, kw := range rs.Retryable.Keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	code, _ := errorCode(err)
	for _, c := range rs.Retryable.Codes {
		if code == c {
			return true
		}
	}
	return false
}

// classified wraps a raw failure into a categorized error carrying the
// remediation message. Errors already classified pass through unchanged.
func (rs Ruleset) classified(err error) error {
	if err == nil {
		return nil
	}
	var pe *provider.Error
	if errors.As(err, &pe) {
		return err
	}
	category := rs.Classify(err)
	return provider.NewError(category, remediation[category], err)
}

// errorCode extracts the machine code and status from a failure chain.
// Third-party errors that expose Code()/StatusCode() are honored too.
func errorCode(err error) (code string, status int) {
	var ce *provider.CodedError
	if errors.As(err, &ce) {
		return ce.Code, ce.Status
	}
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		code = coded.Code()
	}
	var statused interface{ StatusCode() int }
	if errors.As(err, &statused) {
		status = statused.StatusCode()
	}
	return code, status
}
