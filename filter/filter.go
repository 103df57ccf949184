// Package filter evaluates boolean expressions against result tables.
//
// Expressions use the expr language and reference columns by their
// dotted field paths, so a table with columns campaign.name and
// metrics.impressions can be filtered with
//
//	contains(campaign.name, "brand") && num(metrics.impressions) > 100
//
// Numeric metric values arrive as strings on the wire; the num helper
// coerces them for comparisons.
package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mmetrics/adsdata/googleads"
)

// Filter is a compiled row predicate
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expression into an executable filter
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // Column references are only known per table
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{expression: expression, program: program}, nil
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against one row
func (f *Filter) Match(columns []string, row []any) (bool, error) {
	result, err := expr.Run(f.program, rowEnvironment(columns, row))
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// Apply returns a new table holding only the rows the filter matches
func (f *Filter) Apply(table *googleads.Table) (*googleads.Table, error) {
	out := googleads.NewTable(table.Columns)
	for i, row := range table.Rows {
		ok, err := f.Match(table.Columns, row)
		if err != nil {
			return nil, &EvaluationError{Expression: f.expression, Row: i, Err: err}
		}
		if ok {
			out.Append(row)
		}
	}
	return out, nil
}

// rowEnvironment maps dotted column paths onto nested maps so
// expressions address values the way queries name them
func rowEnvironment(columns []string, row []any) map[string]any {
	env := make(map[string]any, len(columns)+16)
	addHelperFunctions(env)

	for i, column := range columns {
		if i >= len(row) {
			break
		}
		parts := strings.Split(column, ".")
		node := env
		for _, part := range parts[:len(parts)-1] {
			next, ok := node[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				node[part] = next
			}
			node = next
		}
		node[parts[len(parts)-1]] = row[i]
	}

	return env
}

func helperFunctions() map[string]any {
	env := make(map[string]any, 16)
	addHelperFunctions(env)
	return env
}

func addHelperFunctions(env map[string]any) {
	// Numeric coercion; int64 values are string-encoded on the wire
	env["num"] = func(v any) float64 {
		switch val := v.(type) {
		case float64:
			return val
		case string:
			n, _ := strconv.ParseFloat(val, 64)
			return n
		default:
			return 0
		}
	}
	// String helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	// Date helpers
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	env["now"] = time.Now
}
