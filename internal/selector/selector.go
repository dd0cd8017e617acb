// Package selector resolves logical article fields from page markup
// using per-site ordered fallback chains of CSS, XPath and regex rules.
package selector

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/newshound/newshound/internal/config"
	"github.com/newshound/newshound/internal/types"
)

// Resolver evaluates selector rules against pages. It holds no
// per-resolution state and is safe for concurrent use.
type Resolver struct {
	logger *slog.Logger
	regex  *regexCache
}

// NewResolver creates a new field resolver.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{
		logger: logger.With("component", "selector"),
		regex:  newRegexCache(),
	}
}

// ResolveField tries the rules of one field's fallback chain in order and
// returns the first non-empty, trimmed match. A malformed rule is logged
// and skipped as a miss; it never aborts resolution. When every rule
// misses the field resolves to absent.
func (r *Resolver) ResolveField(page *types.Page, field string, rules []config.SelectorRule) types.RawField {
	for i, rule := range rules {
		val, err := r.apply(page, rule)
		if err != nil {
			r.logger.Warn("selector rule failed",
				"field", field,
				"rule", i,
				"kind", rule.Kind,
				"error", &types.SelectorError{
					Field:      field,
					Kind:       string(rule.Kind),
					Expression: rule.Expression,
					Err:        err,
				})
			continue
		}

		val = strings.TrimSpace(val)
		if val == "" {
			continue
		}

		r.logger.Debug("field resolved", "field", field, "rule", i)
		return types.RawField{Value: val, Present: true, RuleIndex: i}
	}

	return types.RawField{RuleIndex: -1}
}

// apply dispatches a single rule to its evaluator. The rule-kind set is
// closed, so dispatch is a single exhaustive switch.
func (r *Resolver) apply(page *types.Page, rule config.SelectorRule) (string, error) {
	switch rule.Kind {
	case config.KindCSS, "":
		return evalCSS(page, rule)
	case config.KindXPath:
		return evalXPath(page, rule)
	case config.KindRegex:
		return r.evalRegex(page, rule)
	default:
		return "", fmt.Errorf("unknown selector kind %q", rule.Kind)
	}
}

// Confidence scores a resolved field by how far down its fallback chain
// the value came from. Rule 0 scores highest.
func Confidence(ruleIndex int) float64 {
	if ruleIndex < 0 {
		return 0
	}
	return 1 / float64(1+ruleIndex)
}

// MetaConfidence is the score assigned to values recovered from page
// metadata rather than a configured rule.
const MetaConfidence = 0.1
