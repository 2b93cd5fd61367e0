package introspect

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// Param describes one declared parameter of a constructor or method.
type Param struct {
	Name string
	Type reflect.Type
}

// Typed reports whether the parameter declares a static type. Parameters
// declared as any carry no type information.
func (p Param) Typed() bool { return !isUntyped(p.Type) }

// Directive is an explicit instruction to inject Param from the binding
// Key. It is the Go rendition of an "@Inject key param" annotation.
type Directive struct {
	Key   string
	Param string
}

// Signature is the introspected shape of a constructor or method: its
// ordered parameters, injection directives in declaration order, declared
// defaults, and the means to invoke it.
type Signature struct {
	Target     string
	Params     []Param
	Directives []Directive
	Defaults   map[string]any

	invoke func(args []reflect.Value) (any, error)
}

// Directive returns the first directive declared for param.
func (s *Signature) Directive(param string) (Directive, bool) {
	for _, d := range s.Directives {
		if d.Param == param {
			return d, true
		}
	}
	return Directive{}, false
}

// Default returns the declared default value for param.
func (s *Signature) Default(param string) (any, bool) {
	v, ok := s.Defaults[param]
	return v, ok
}

// Invoke calls the underlying constructor or method with args, which must
// follow the order of Params.
func (s *Signature) Invoke(args []reflect.Value) (any, error) {
	if len(args) != len(s.Params) {
		return nil, fmt.Errorf("%s: got %d arguments, want %d", s.Target, len(args), len(s.Params))
	}
	return s.invoke(args)
}

// ── building ──────────────────────────────────────────────────────────────────

var errorType = reflect.TypeFor[error]()

// funcSignature introspects a constructor function returning T or (T, error).
func funcSignature(fn reflect.Value, o *options) (*Signature, reflect.Type, error) {
	ft := fn.Type()
	if fn.IsNil() {
		return nil, nil, fmt.Errorf("%w: nil constructor", ErrInvalidConstructor)
	}
	if ft.IsVariadic() {
		return nil, nil, fmt.Errorf("%w: variadic constructor %s", ErrInvalidConstructor, ft)
	}
	switch {
	case ft.NumOut() == 1 && ft.Out(0) != errorType:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return nil, nil, fmt.Errorf("%w: %s must return T or (T, error)", ErrInvalidConstructor, ft)
	}

	params, err := namedParams(ft, o.params)
	if err != nil {
		return nil, nil, err
	}
	sig := &Signature{
		Params: params,
		invoke: func(args []reflect.Value) (any, error) {
			return results(fn.Call(args))
		},
	}
	return sig, ft.Out(0), nil
}

// structSignature introspects a struct type. Every exported field tagged
// `inject` is a parameter. The tag reads `inject:"[key][,name=param]"`: a
// key makes a directive, and the parameter is named param or, by default,
// the field name in lower camel case (Host → host, HTTPClient → httpClient).
//
//	type Mailer struct {
//	    Host   string  `inject:"mail.host"`
//	    Port   int     `inject:",name=smtp_port"`
//	    Logger *Logger `inject:""`
//	    sent   int
//	}
func structSignature(st reflect.Type) *Signature {
	var (
		params     []Param
		directives []Directive
		index      []int
	)
	for i := range st.NumField() {
		f := st.Field(i)
		tag, tagged := f.Tag.Lookup("inject")
		if !tagged || !f.IsExported() {
			continue
		}
		key, name := parseInjectTag(tag)
		if name == "" {
			name = lowerCamel(f.Name)
		}
		params = append(params, Param{Name: name, Type: f.Type})
		index = append(index, i)
		if key != "" {
			directives = append(directives, Directive{Key: key, Param: name})
		}
	}
	return &Signature{
		Target:     TypeName(st),
		Params:     params,
		Directives: directives,
		invoke: func(args []reflect.Value) (any, error) {
			p := reflect.New(st)
			for i, arg := range args {
				p.Elem().Field(index[i]).Set(arg)
			}
			return p.Interface(), nil
		},
	}
}

func parseInjectTag(tag string) (key, name string) {
	key, opts, _ := strings.Cut(tag, ",")
	for _, opt := range strings.Split(opts, ",") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(opt), "name="); ok {
			name = v
		}
	}
	return strings.TrimSpace(key), name
}

// lowerCamel lowercases the leading upper-case run of s, keeping the last
// capital of an initialism that starts the next word.
func lowerCamel(s string) string {
	r := []rune(s)
	n := 0
	for n < len(r) && unicode.IsUpper(r[n]) {
		n++
	}
	if n > 1 && n < len(r) && unicode.IsLower(r[n]) {
		n--
	}
	for i := range n {
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

// methodSignature introspects a bound method value.
func methodSignature(m reflect.Value, target string, names []string) (*Signature, error) {
	mt := m.Type()
	if mt.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic method %s", ErrInvalidConstructor, target)
	}
	params, err := namedParams(mt, names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", target, err)
	}
	return &Signature{
		Target: target,
		Params: params,
		invoke: func(args []reflect.Value) (any, error) {
			return results(m.Call(args))
		},
	}, nil
}

// namedParams pairs the inputs of ft with names; unnamed inputs become
// arg0, arg1, ...
func namedParams(ft reflect.Type, names []string) ([]Param, error) {
	if len(names) > 0 && len(names) != ft.NumIn() {
		return nil, fmt.Errorf("%w: %d names for %d parameters", ErrParamCount, len(names), ft.NumIn())
	}
	params := make([]Param, ft.NumIn())
	for i := range params {
		name := fmt.Sprintf("arg%d", i)
		if len(names) > 0 {
			name = names[i]
		}
		params[i] = Param{Name: name, Type: ft.In(i)}
	}
	return params, nil
}

// results folds call outputs into a single value and error. A trailing
// error output is split off; two or more remaining outputs come back as
// []any.
func results(out []reflect.Value) (any, error) {
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	}
	all := make([]any, len(out))
	for i, v := range out {
		all[i] = v.Interface()
	}
	return all, nil
}
