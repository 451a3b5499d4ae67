// Package filter compiles expr expressions into predicates over the
// movie collection, for local narrowing of list output. Filtering is
// purely client-side; the full collection is still fetched from the
// backend first.
//
// Expressions see the movie's fields directly:
//
//	Year > 2010 && contains(Genre, "sci")
//	Director == "D. Villeneuve" || Year < 1980
//	daysSince(Added) < 30
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/svega/cinelist/movie"
)

// Filter is a compiled movie predicate.
type Filter struct {
	expression string
	program    *vm.Program
}

// helperFunctions are available in every expression.
func helperFunctions() map[string]any {
	return map[string]any{
		// String helpers (case-insensitive)
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
		"yearsAgo": func(years int) time.Time {
			return time.Now().AddDate(-years, 0, 0)
		},
		"now": time.Now,
	}
}

// Compile compiles a filter expression.
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression: %w", err)
	}

	return &Filter{
		expression: expression,
		program:    program,
	}, nil
}

// Expression returns the source expression.
func (f *Filter) Expression() string {
	return f.expression
}

// Matches evaluates the filter against a movie. Expressions that
// error or produce a non-boolean result do not match.
func (f *Filter) Matches(m movie.Movie) bool {
	env := helperFunctions()
	env["Movie"] = m
	env["ID"] = m.ID
	env["Title"] = m.Title
	env["Year"] = m.Year
	env["Director"] = m.Director
	env["Genre"] = m.Genre
	env["IMDBID"] = m.IMDBID
	env["Added"] = m.CreatedAt
	env["Updated"] = m.UpdatedAt

	output, err := expr.Run(f.program, env)
	if err != nil {
		return false
	}

	result, ok := output.(bool)
	return ok && result
}

// Apply returns the movies matching the filter, preserving order.
func (f *Filter) Apply(movies []movie.Movie) []movie.Movie {
	var matched []movie.Movie
	for _, m := range movies {
		if f.Matches(m) {
			matched = append(matched, m)
		}
	}
	return matched
}
