// Package filter evaluates expression filters against fetched bugs.
//
// Expressions use the expr language and see the current bug as Bug, plus a
// set of helper functions, for example:
//
//	Bug.Status == "NEW" && hasKeyword("Triaged")
//	Bug.Severity in ["high", "urgent"] && daysSince(Bug.LastChangeTime) > 30
//	containsText(Bug.Summary, "lvm")
//
// The helpers are named so they never shadow the language's own operators
// such as "contains" and "startsWith"; those stay available with their
// native case-sensitive semantics.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/relgen/bugzilla-query/bugzilla"
)

// Filter is a compiled filter expression.
type Filter struct {
	program    *vm.Program
	expression string
}

// Compile compiles a filter expression.
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	program, err := expr.Compile(expression,
		expr.Env(environment(bugzilla.Bug{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression: %w", err)
	}

	return &Filter{program: program, expression: expression}, nil
}

// String returns the original expression.
func (f *Filter) String() string {
	return f.expression
}

// Matches evaluates the filter against a bug.
func (f *Filter) Matches(bug bugzilla.Bug) (bool, error) {
	output, err := vm.Run(f.program, environment(bug))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter %q: %w", f.expression, err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q did not evaluate to a boolean", f.expression)
	}
	return result, nil
}

// Apply returns the bugs matching the filter, keeping their order.
func (f *Filter) Apply(bugs []bugzilla.Bug) ([]bugzilla.Bug, error) {
	var matched []bugzilla.Bug
	for _, bug := range bugs {
		ok, err := f.Matches(bug)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, bug)
		}
	}
	return matched, nil
}

// environment builds the expression environment for one bug.
func environment(bug bugzilla.Bug) map[string]any {
	return map[string]any{
		"Bug": bug,

		"hasKeyword": func(keyword string) bool {
			return containsFold(bug.Keywords, keyword)
		},
		"hasGroup": func(group string) bool {
			return containsFold(bug.Groups, group)
		},
		"ccContains": func(email string) bool {
			return containsFold(bug.CC, email)
		},
		"hasFlag": func(name, status string) bool {
			for _, flag := range bug.Flags {
				if strings.EqualFold(flag.Name, name) && flag.Status == status {
					return true
				}
			}
			return false
		},

		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"parseDate": func(date string) time.Time {
			t, _ := time.Parse("2006-01-02", date)
			return t
		},
		"now": time.Now,

		// Case-insensitive string helpers
		"containsText": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWithText": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}

func containsFold(values []string, wanted string) bool {
	for _, value := range values {
		if strings.EqualFold(value, wanted) {
			return true
		}
	}
	return false
}
