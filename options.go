package fixture

import "github.com/goliatone/go-fixture/pkg/activity"

// Option configures a Factory.
type Option func(*factoryConfig)

type factoryConfig struct {
	nameDepth     int
	strict        bool
	logger        Logger
	evaluator     Evaluator
	programCache  ProgramCache
	functions     *FunctionRegistry
	rules         map[string][]string
	activityHooks activity.Hooks
	activityCfg   activity.Config
}

func applyOptions(opts []Option) factoryConfig {
	cfg := factoryConfig{
		logger:      defaultLogger(),
		activityCfg: activity.Config{Enabled: true, Channel: activity.DefaultChannel},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithNameDepth selects which dotted identifier segment names the model.
// "models.todo.default" routes to "todo" with depth 1.
func WithNameDepth(depth int) Option {
	return func(cfg *factoryConfig) {
		cfg.nameDepth = depth
	}
}

// WithStrict makes missing slices fatal. All missing identifiers found during
// one call are reported together.
func WithStrict(strict bool) Option {
	return func(cfg *factoryConfig) {
		cfg.strict = strict
	}
}

// WithEvaluator configures the evaluator used for rules and checks.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *factoryConfig) {
		cfg.evaluator = e
	}
}

// WithRule registers a boolean expression that every instance of model must
// satisfy after it is built and patched.
func WithRule(model, expression string) Option {
	return func(cfg *factoryConfig) {
		if cfg.rules == nil {
			cfg.rules = map[string][]string{}
		}
		cfg.rules[model] = append(cfg.rules[model], expression)
	}
}

// WithActivityHooks attaches activity hooks notified after builds. Nil
// entries are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	compacted := hooks.Compact()
	return func(cfg *factoryConfig) {
		cfg.activityHooks = compacted
	}
}

// WithActivityConfig overrides the activity emitter defaults.
func WithActivityConfig(c activity.Config) Option {
	return func(cfg *factoryConfig) {
		cfg.activityCfg = c
	}
}
