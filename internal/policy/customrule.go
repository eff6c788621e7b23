package policy

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// RuleEnv is the environment a custom eligibility rule evaluates against.
// Field names are the identifiers available inside the expression.
type RuleEnv struct {
	TotalMinor int64    `expr:"total_minor"`
	Currency   string   `expr:"currency"`
	Codes      []string `expr:"codes"`
	Subscriber bool     `expr:"subscriber"`
}

// CustomRule is an optional per-store expression that can grant eligibility
// past the threshold (e.g. `total_minor <= 150000 and "VIP50" in codes`).
// It can only widen eligibility, never cause a block, so a broken or hostile
// expression degrades to the default rule chain.
type CustomRule struct {
	source  string
	program *vm.Program
}

// CompileCustomRule compiles an expression source into a reusable rule. The
// expression must produce a bool.
func CompileCustomRule(source string) (*CustomRule, error) {
	program, err := expr.Compile(source, expr.Env(RuleEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile custom rule: %w", err)
	}
	return &CustomRule{source: source, program: program}, nil
}

// Source returns the original expression text.
func (r *CustomRule) Source() string {
	if r == nil {
		return ""
	}
	return r.source
}

// grantsEligibility runs the rule. Any error, panic, or non-bool result reads
// as "no extra eligibility granted", keeping Evaluate total and
// deterministic.
func (r *CustomRule) grantsEligibility(env RuleEnv) (granted bool) {
	if r == nil || r.program == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			granted = false
		}
	}()
	out, err := expr.Run(r.program, env)
	if err != nil {
		return false
	}
	b, ok := out.(bool)
	return ok && b
}
