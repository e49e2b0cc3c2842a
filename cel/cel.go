// Package cel selects labels of a document with CEL expressions.
package cel

import (
	"fmt"
	"reflect"

	"github.com/google/cel-go/cel"

	"github.com/sharedcode/ocaf/tdf"
)

// Evaluator struct contains the CEL expression & the cel program used to evaluate it against a label.
type Evaluator struct {
	Expression string
	program    cel.Program
}

// NewEvaluator compiles a boolean expression over the variable "label", a map with keys
// "entry" (string), "tag" (int), "depth" (int) and "attrs" (map of kind name to value).
//
// Example: label.depth == 2 && 'Name' in label.attrs && label.attrs['Name'].startsWith('shaft')
func NewEvaluator(expression string) (*Evaluator, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression can't be empty string")
	}

	env, err := cel.NewEnv(
		cel.Variable("label", cel.MapType(cel.StringType, cel.AnyType)),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating CEL environment: %v", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("error compiling CEL expression: %v", issues.Err())
	}
	if !reflect.DeepEqual(ast.OutputType(), cel.BoolType) && !reflect.DeepEqual(ast.OutputType(), cel.DynType) {
		return nil, fmt.Errorf("CEL expression must evaluate to bool, got %v", ast.OutputType())
	}
	p, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("error creating Program: %v", err)
	}
	return &Evaluator{
		Expression: expression,
		program:    p,
	}, nil
}

// Evaluate reports whether l matches the expression.
func (e *Evaluator) Evaluate(l tdf.Label) (bool, error) {
	out, _, err := e.program.Eval(map[string]any{
		"label": LabelVars(l),
	})
	if err != nil {
		return false, fmt.Errorf("error evaluating CEL expression: %v", err)
	}
	v, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("error converting to bool, got: %v", out.Value())
	}
	return v, nil
}

// Select returns the attached labels of data matching e, in depth first order.
func Select(data *tdf.Data, e *Evaluator) ([]tdf.Label, error) {
	var r []tdf.Label
	err := data.Walk(func(l tdf.Label) error {
		ok, err := e.Evaluate(l)
		if err != nil {
			return err
		}
		if ok {
			r = append(r, l)
		}
		return nil
	})
	return r, err
}

// LabelVars returns the map bound to the "label" variable.
func LabelVars(l tdf.Label) map[string]any {
	attrs := make(map[string]any, l.NbAttributes())
	for _, a := range l.Attributes() {
		attrs[a.Kind().String()] = attributeValue(a)
	}
	return map[string]any{
		"entry": l.Entry(),
		"tag":   l.Tag(),
		"depth": l.Depth(),
		"attrs": attrs,
	}
}

func attributeValue(a tdf.Attribute) any {
	p, ok := a.(tdf.Persistent)
	if !ok {
		return fmt.Sprint(a)
	}
	switch v := p.Payload().(type) {
	case *int64:
		return *v
	case *float64:
		return *v
	case *string:
		return *v
	case *bool:
		return *v
	case *[]byte:
		return *v
	case *[]int64:
		r := make([]any, len(*v))
		for i := range *v {
			r[i] = (*v)[i]
		}
		return r
	case *[]float64:
		r := make([]any, len(*v))
		for i := range *v {
			r[i] = (*v)[i]
		}
		return r
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(a)
}
