package cfgstruct

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

// BindOpt changes how Bind resolves defaults.
type BindOpt func(o *bindOpts)

type bindOpts struct {
	release bool
	vars    map[string]string
}

// UseReleaseDefaults prefers the `releaseDefault` tag over `default`.
func UseReleaseDefaults() BindOpt {
	return func(o *bindOpts) { o.release = true }
}

// UseDevDefaults keeps the `default` tag. It is the default behavior.
func UseDevDefaults() BindOpt {
	return func(o *bindOpts) { o.release = false }
}

// Root sets the value substituted for $ROOT in defaults.
func Root(path string) BindOpt {
	return Var("ROOT", path)
}

// ConfDir sets the value substituted for $CONFDIR in defaults.
func ConfDir(path string) BindOpt {
	return Var("CONFDIR", path)
}

// Var sets the value substituted for $name in defaults.
func Var(name, value string) BindOpt {
	return func(o *bindOpts) { o.vars[name] = value }
}

// Bind registers a flag on f for every exported field of the struct pointed
// to by config. Nested structs are prefixed with their own name, so
// Log.MaxSize becomes "log.max-size". The `help` tag is the usage text and
// the `default` (or `releaseDefault`) tag the default value.
//
// Bind panics on unsupported field types.
func Bind(f *pflag.FlagSet, config interface{}, opts ...BindOpt) {
	o := bindOpts{vars: map[string]string{}}
	for _, opt := range opts {
		opt(&o)
	}
	ptr := reflect.ValueOf(config)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("cfgstruct: Bind requires a struct pointer, got %T", config))
	}
	bindStruct(f, "", ptr.Elem(), &o)
}

func bindStruct(f *pflag.FlagSet, prefix string, val reflect.Value, o *bindOpts) {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		fieldVal := val.Field(i)
		name := prefix + Hyphenate(field.Name)
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if field.Anonymous {
				bindStruct(f, prefix, fieldVal, o)
			} else {
				bindStruct(f, name+".", fieldVal, o)
			}
			continue
		}
		bindField(f, name, field, fieldVal.Addr().Interface(), o)
	}
}

func bindField(f *pflag.FlagSet, name string, field reflect.StructField, ptr interface{}, o *bindOpts) {
	help := field.Tag.Get("help")
	def := field.Tag.Get("default")
	if o.release {
		if rd, ok := field.Tag.Lookup("releaseDefault"); ok {
			def = rd
		}
	}
	def = expand(def, o.vars)

	var err error
	switch p := ptr.(type) {
	case *string:
		f.StringVar(p, name, def, help)
	case *bool:
		var v bool
		v, err = cast.ToBoolE(orZero(def, "false"))
		f.BoolVar(p, name, v, help)
	case *int:
		var v int
		v, err = cast.ToIntE(orZero(def, "0"))
		f.IntVar(p, name, v, help)
	case *int64:
		var v int64
		v, err = cast.ToInt64E(orZero(def, "0"))
		f.Int64Var(p, name, v, help)
	case *uint:
		var v uint
		v, err = cast.ToUintE(orZero(def, "0"))
		f.UintVar(p, name, v, help)
	case *float64:
		var v float64
		v, err = cast.ToFloat64E(orZero(def, "0"))
		f.Float64Var(p, name, v, help)
	case *time.Duration:
		var v time.Duration
		v, err = cast.ToDurationE(orZero(def, "0"))
		f.DurationVar(p, name, v, help)
	case *[]string:
		var v []string
		if def != "" {
			v = strings.Split(def, ",")
		}
		f.StringSliceVar(p, name, v, help)
	default:
		panic(fmt.Sprintf("cfgstruct: unsupported type %s for field %s", field.Type, field.Name))
	}
	if err != nil {
		panic(fmt.Sprintf("cfgstruct: invalid default %q for %s: %v", def, name, err))
	}
}

func orZero(s, zero string) string {
	if s == "" {
		return zero
	}
	return s
}

func expand(s string, vars map[string]string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return os.Expand(s, func(key string) string {
		if v, ok := vars[key]; ok {
			return v
		}
		return "$" + key
	})
}

// Hyphenate turns a Go field name into a flag name: MaxIdleConn becomes
// max-idle-conn and HTTPAddr becomes http-addr.
func Hyphenate(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				b.WriteByte('-')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
