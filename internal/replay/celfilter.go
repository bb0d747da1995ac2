package replay

import (
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/Vivek2302/msbuild/pkg/taskevent"
)

// celFilter wraps a compiled CEL program evaluated per decoded event.
// When disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("kind", cel.StringType),
		cel.Variable("item_name", cel.StringType),
		cel.Variable("item_count", cel.IntType),
		cel.Variable("seq", cel.IntType),
		cel.Variable("ts_ms", cel.IntType),
		// Item specs, for membership and prefix filters
		cel.Variable("specs", cel.ListType(cel.StringType)),
		// Current time in ms for windowed filters
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against a decoded event.
func (f celFilter) Eval(seq uint64, tsMs int64, e *taskevent.Event) bool {
	if !f.enabled {
		return true
	}
	name, _ := e.ItemName()
	items := e.Items()
	specs := make([]string, 0, len(items))
	for _, it := range items {
		if n, ok := it.(taskevent.NamedItem); ok {
			specs = append(specs, n.Spec)
		}
	}
	out, _, err := f.prog.Eval(map[string]any{
		"kind":       e.Kind().String(),
		"item_name":  name,
		"item_count": int64(len(items)),
		"seq":        int64(seq),
		"ts_ms":      tsMs,
		"specs":      specs,
		"now_ms":     time.Now().UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
