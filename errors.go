package fixture

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingSlice matches lookups of identifiers absent from the library.
	ErrMissingSlice = errors.New("fixture: slice not found")
	// ErrMissingModel matches builds whose routed model is not registered.
	ErrMissingModel = errors.New("fixture: model not found")
	// ErrCycle matches slice chains that reference themselves.
	ErrCycle = errors.New("fixture: slice cycle detected")
	// ErrUnboundPath matches path references resolved without an instance.
	ErrUnboundPath = errors.New("fixture: path reference requires an instance")
	// ErrInvalidTarget matches unsupported build or lookup targets.
	ErrInvalidTarget = errors.New("fixture: invalid target")
	// ErrNoEvaluator is returned when no rule evaluator can be configured.
	ErrNoEvaluator = errors.New("fixture: evaluator not configured")
	// ErrEmptyExpression is returned for blank rule or check expressions.
	ErrEmptyExpression = errors.New("fixture: expression must not be empty")
	// ErrUnknownFunction matches calls to functions absent from a registry.
	ErrUnknownFunction = errors.New("fixture: function not registered")
)

// MissingSliceError reports a slice identifier absent from the library.
type MissingSliceError struct {
	ID    string
	Chain []string
}

func (e *MissingSliceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if len(e.Chain) == 0 {
		return fmt.Sprintf("fixture: no slice at %q", e.ID)
	}
	return fmt.Sprintf("fixture: no slice at %q (via %s)", e.ID, strings.Join(e.Chain, " -> "))
}

func (e *MissingSliceError) Is(target error) bool {
	return target == ErrMissingSlice
}

// MissingModelError reports a routed model name with no registered model.
type MissingModelError struct {
	Model string
	ID    string
}

func (e *MissingModelError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Model == "" {
		return fmt.Sprintf("fixture: no model name routed for %q", e.ID)
	}
	return fmt.Sprintf("fixture: no model %q for %q", e.Model, e.ID)
}

func (e *MissingModelError) Is(target error) bool {
	return target == ErrMissingModel
}

// CycleError reports a slice chain that loops back onto itself. Chain ends
// with the repeated identifier.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("fixture: slice cycle %s", strings.Join(e.Chain, " -> "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// RuleError captures evaluator metadata alongside the originating error.
type RuleError struct {
	Engine string
	Model  string
	Expr   string
	Err    error
}

func (e *RuleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("fixture: %s rule %s model=%s: %v", e.Engine, describeExpression(e.Expr), e.Model, e.Err)
}

func (e *RuleError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// errRuleFailed is wrapped by RuleError when a rule evaluates to false.
var errRuleFailed = errors.New("rule not satisfied")

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "fixture:") {
		return err
	}
	return fmt.Errorf("fixture: %s evaluator: %w", engine, err)
}

func wrapRuleError(engine, expr, model string, err error) error {
	if err == nil {
		return nil
	}

	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		if ruleErr.Engine == "" {
			ruleErr.Engine = engine
		}
		if ruleErr.Expr == "" {
			ruleErr.Expr = expr
		}
		if ruleErr.Model == "" {
			ruleErr.Model = model
		}
		return ruleErr
	}

	return &RuleError{
		Engine: engine,
		Model:  model,
		Expr:   expr,
		Err:    err,
	}
}
