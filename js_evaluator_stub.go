//go:build !js_eval

package fixture

// NewJSEvaluator is unavailable without the js_eval build tag.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = newJSSettings(opts)
	return nil
}

func isJSEvaluator(Evaluator) bool {
	return false
}
