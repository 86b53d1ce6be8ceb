package fixture

import "time"

// JSEvaluatorOption configures the goja evaluator. The options exist in every
// build so callers compile without the js_eval tag; NewJSEvaluator returns
// nil there.
type JSEvaluatorOption func(*jsSettings)

type jsSettings struct {
	cache    ProgramCache
	registry *FunctionRegistry
	timeout  time.Duration
}

// JSWithProgramCache shares compiled scripts through cache.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(s *jsSettings) { s.cache = cache }
}

// JSWithFunctionRegistry binds every function in registry as a global, plus
// a generic call(name, ...args).
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(s *jsSettings) { s.registry = registry.Clone() }
}

// JSWithTimeout interrupts a rule script that runs longer than d. Zero
// disables the limit.
func JSWithTimeout(d time.Duration) JSEvaluatorOption {
	return func(s *jsSettings) {
		if d < 0 {
			d = 0
		}
		s.timeout = d
	}
}

func newJSSettings(opts []JSEvaluatorOption) jsSettings {
	var s jsSettings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
