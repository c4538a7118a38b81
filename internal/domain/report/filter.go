package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/cel-go/cel"
)

// maxExpressionLength bounds filter expressions; anything longer is a paste
// accident, not a filter.
const maxExpressionLength = 1024

// maxCostBudget is the CEL runtime cost limit per row evaluation.
const maxCostBudget = 100_000

// evalTimeout is the maximum time allowed for filtering one report.
const evalTimeout = 5 * time.Second

// interruptCheckFreq is how often (in comprehension iterations) context
// cancellation is checked.
const interruptCheckFreq = 100

// Filter is a compiled CEL row predicate. Expressions address columns through
// the `row` map, e.g. `row.status == "Pending"` or
// `int(row.requiredHours) >= 300`.
type Filter struct {
	expr string
	prg  cel.Program
}

// NewFilter parses, type-checks, and compiles a filter expression.
func NewFilter(expr string) (*Filter, error) {
	if len(expr) > maxExpressionLength {
		return nil, fmt.Errorf("filter expression too long: %d chars (max %d)", len(expr), maxExpressionLength)
	}

	env, err := cel.NewEnv(
		cel.Variable("row", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("filter expression must evaluate to a boolean, got %s", ast.OutputType())
	}

	prg, err := env.Program(ast,
		cel.EvalOptions(cel.OptOptimize),
		cel.CostLimit(maxCostBudget),
		cel.InterruptCheckFrequency(interruptCheckFreq),
	)
	if err != nil {
		return nil, fmt.Errorf("filter program creation failed: %w", err)
	}

	return &Filter{expr: expr, prg: prg}, nil
}

// Expression returns the source expression.
func (f *Filter) Expression() string {
	return f.expr
}

// Match evaluates the filter against one row.
func (f *Filter) Match(ctx context.Context, row Row) (bool, error) {
	out, _, err := f.prg.ContextEval(ctx, map[string]any{"row": map[string]any(row)})
	if err != nil {
		return false, fmt.Errorf("filter evaluation failed: %w", err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter returned %T, expected bool", out.Value())
	}
	return matched, nil
}

// Apply returns the rows matching the filter, preserving order. Evaluation of
// the whole report is bounded by evalTimeout.
func (f *Filter) Apply(ctx context.Context, rows []Row) ([]Row, error) {
	ctx, cancel := context.WithTimeout(ctx, evalTimeout)
	defer cancel()

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		matched, err := f.Match(ctx, row)
		if err != nil {
			return nil, err
		}
		if matched {
			out = append(out, row)
		}
	}
	return out, nil
}
