package registry

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DecodeArgs fills dst (a pointer to a struct) from a block's evaluated
// arguments. Fields opt in with an `arg:"name"` tag; appending ",optional"
// makes a missing argument leave the field's current value in place.
// Arguments that match no field are rejected, so typos fail loudly.
func DecodeArgs(args map[string]cty.Value, dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("registry: DecodeArgs needs a struct pointer, got %T", dst))
	}
	sv := v.Elem()
	st := sv.Type()

	known := make(map[string]struct{}, st.NumField())
	for i := 0; i < st.NumField(); i++ {
		tag := st.Field(i).Tag.Get("arg")
		if tag == "" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		optional := strings.HasSuffix(tag, ",optional")
		known[name] = struct{}{}

		val, ok := args[name]
		if !ok {
			if optional {
				continue
			}
			return fmt.Errorf("missing required argument %q", name)
		}
		field := sv.Field(i)
		if err := gocty.FromCtyValue(val, field.Addr().Interface()); err != nil {
			return fmt.Errorf("argument %q: %w", name, err)
		}
	}

	for name := range args {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("unsupported argument %q", name)
		}
	}
	return nil
}
