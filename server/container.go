package server

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// container resolves constructor arguments by type. Providers are called at
// most once; their result is memoised as a singleton.
type container struct {
	singletons map[reflect.Type]reflect.Value
	providers  map[reflect.Type]reflect.Value // func(...) T or func(...) (T, error)
	resolving  map[reflect.Type]bool
}

func newContainer(
	singletons map[reflect.Type]reflect.Value,
	providers map[reflect.Type]reflect.Value,
) *container {
	return &container{singletons: singletons, providers: providers, resolving: map[reflect.Type]bool{}}
}

// provideDefault registers v for t unless the application already bound t.
func (c *container) provideDefault(t reflect.Type, v reflect.Value) {
	if _, ok := c.singletons[t]; ok {
		return
	}
	if _, ok := c.providers[t]; ok {
		return
	}
	c.singletons[t] = v
}

func (c *container) resolve(t reflect.Type) (reflect.Value, error) {
	if v, ok := c.singletons[t]; ok {
		return v, nil
	}
	p, ok := c.providers[t]
	if !ok {
		return reflect.Value{}, fmt.Errorf("no provider for %v", t)
	}
	if c.resolving[t] {
		return reflect.Value{}, fmt.Errorf("dependency cycle through %v", t)
	}

	c.resolving[t] = true
	defer delete(c.resolving, t)

	v, err := c.call(p)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("provide %v: %w", t, err)
	}
	c.singletons[t] = v
	return v, nil
}

// call resolves every argument of fn and invokes it.
func (c *container) call(fn reflect.Value) (reflect.Value, error) {
	ft := fn.Type()
	args := make([]reflect.Value, ft.NumIn())
	for i := range args {
		v, err := c.resolve(ft.In(i))
		if err != nil {
			return v, err
		}
		args[i] = v
	}

	out := fn.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}
	return out[0], nil
}

// isFactory reports whether fn has the shape func(...) T or func(...) (T, error).
func isFactory(fn reflect.Value) bool {
	if fn.Kind() != reflect.Func {
		return false
	}
	ft := fn.Type()
	switch ft.NumOut() {
	case 1:
		return true
	case 2:
		return ft.Out(1) == errorType
	default:
		return false
	}
}
