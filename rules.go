package fixture

import (
	"fmt"
	"time"
)

// RuleContext carries the inputs of one rule evaluation.
type RuleContext struct {
	Snapshot any
	Model    string
	Now      *time.Time
	Args     map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaults()
	return *ctx.Now
}

func (ctx RuleContext) modelLabel() string {
	if ctx.Model != "" {
		return ctx.Model
	}
	return "unknown"
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// Check evaluates a boolean expression against the snapshot of instance.
func (f *Factory) Check(instance Instance, expression string) (bool, error) {
	if instance == nil {
		return false, fmt.Errorf("fixture: check requires an instance")
	}
	return f.evaluateRule(instance, expression)
}

func (f *Factory) checkRules(model string, instance Instance) error {
	for _, expression := range f.cfg.rules[model] {
		ok, err := f.evaluateRule(instance, expression)
		if err != nil {
			return err
		}
		if !ok {
			return wrapRuleError(f.engineName(), expression, model, errRuleFailed)
		}
	}
	return nil
}

func (f *Factory) evaluateRule(instance Instance, expression string) (bool, error) {
	if expression == "" {
		return false, ErrEmptyExpression
	}
	evaluator, err := f.resolveEvaluator()
	if err != nil {
		return false, err
	}
	snapshot, err := instance.Snapshot()
	if err != nil {
		return false, fmt.Errorf("fixture: snapshot %s: %w", instance.ModelName(), err)
	}
	ctx := RuleContext{Snapshot: snapshot, Model: instance.ModelName()}.withDefaults()

	start := time.Now()
	result, evalErr := evaluator.Evaluate(ctx, expression)
	evalErr = wrapRuleError(f.engineName(), expression, ctx.modelLabel(), evalErr)
	f.cfg.logger.LogDiagnostic(Diagnostic{
		Level:   LevelDebug,
		Message: fmt.Sprintf("rule %q evaluated in %s", expression, time.Since(start)),
		Err:     evalErr,
	})
	if evalErr != nil {
		return false, evalErr
	}

	ok, isBool := result.(bool)
	if !isBool {
		return false, wrapRuleError(f.engineName(), expression, ctx.modelLabel(),
			fmt.Errorf("expected bool result, got %T", result))
	}
	return ok, nil
}

func (f *Factory) resolveEvaluator() (Evaluator, error) {
	if f.cfg.evaluator != nil {
		return f.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if f.cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(f.cfg.programCache))
	}
	if f.cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(f.cfg.functions))
	}
	evaluator := NewExprEvaluator(exprOpts...)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return evaluator, nil
}

func (f *Factory) engineName() string {
	return evaluatorEngineName(f.cfg.evaluator)
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case nil, *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if isJSEvaluator(e) {
			return "js"
		}
		return "custom"
	}
}
