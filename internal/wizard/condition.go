package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// Condition evaluates the when expression of an entry against the answers
// collected so far.
//
// Answers are exposed three ways: as answers["db-host"], as variables with
// dashes and colons replaced by underscores (db_host) and through
// enabled("amqp-enabled"), which is true for a truthy answer. Answers of
// "true" and "false" are booleans, every other answer is a string.
type Condition struct {
	answers map[string]string
}

// NewCondition creates an evaluator over answers.
func NewCondition(answers map[string]string) *Condition {
	return &Condition{answers: answers}
}

// Evaluate reports whether when holds. An empty expression always holds.
func (c *Condition) Evaluate(when string) (bool, error) {
	if strings.TrimSpace(when) == "" {
		return true, nil
	}

	env := c.environment()

	program, err := expr.Compile(when, expr.Env(env), expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("failed to compile condition %q: %w", when, err)
	}

	output, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate condition %q: %w", when, err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not evaluate to boolean: %v", when, output)
	}
	return result, nil
}

func (c *Condition) environment() map[string]any {
	answers := make(map[string]any, len(c.answers))
	env := make(map[string]any, len(c.answers)+2)

	for name, raw := range c.answers {
		v := coerce(raw)
		answers[name] = v
		env[identifier(name)] = v
	}

	env["answers"] = answers
	env["enabled"] = func(name string) bool {
		b, err := strconv.ParseBool(c.answers[name])
		return err == nil && b
	}
	return env
}

func coerce(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}

var identifierReplacer = strings.NewReplacer("-", "_", ":", "_", ".", "_")

// identifier converts an option name to an expression variable name.
func identifier(name string) string {
	return identifierReplacer.Replace(name)
}
