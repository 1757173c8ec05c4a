package convert

import (
	"github.com/pkg/errors"

	"github.com/symflow-ml/symflow/internal/sym"
)

// environment maps tensor names to the symbolic expressions bound to them
// during one conversion run. A name is bound at most once; the environment
// is owned by a single Convert call and discarded afterwards.
type environment struct {
	values map[string]*sym.Expr
}

func newEnvironment() *environment {
	return &environment{values: make(map[string]*sym.Expr)}
}

func (env *environment) bind(name string, e *sym.Expr) error {
	if _, exists := env.values[name]; exists {
		return errors.Errorf("tensor %q bound twice", name)
	}
	env.values[name] = e
	return nil
}

func (env *environment) lookup(name string) (*sym.Expr, bool) {
	e, ok := env.values[name]
	return e, ok
}
