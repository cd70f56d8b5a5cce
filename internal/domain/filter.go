package domain

import "strings"

// DefaultFilterExcludes are the checker categories suppressed by default.
var DefaultFilterExcludes = []string{
	"whitespace/parens",
	"build/include_order",
	"build/header_guard",
}

// FilterRuleSet selects which checker categories are reported. Includes are
// always serialized before excludes.
type FilterRuleSet struct {
	Includes []string
	Excludes []string
}

// Token returns the comma-joined filter list, e.g. "+A,-B,-C". The second
// result is false when the set is empty and no filter should be passed.
func (f FilterRuleSet) Token() (string, bool) {
	rules := make([]string, 0, len(f.Includes)+len(f.Excludes))

	for _, category := range f.Includes {
		if category = strings.TrimSpace(category); category != "" {
			rules = append(rules, "+"+category)
		}
	}

	for _, category := range f.Excludes {
		if category = strings.TrimSpace(category); category != "" {
			rules = append(rules, "-"+category)
		}
	}

	if len(rules) == 0 {
		return "", false
	}

	return strings.Join(rules, ","), true
}

// Args returns the checker arguments for the rule set: a single
// `--filter=<token>` flag, or nothing at all.
func (f FilterRuleSet) Args() []string {
	token, ok := f.Token()
	if !ok {
		return nil
	}

	return []string{"--filter=" + token}
}
