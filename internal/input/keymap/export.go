package keymap

import (
	"fmt"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/shortcuts/internal/input/scope"
)

// JSON encodes the file in the JSON keymap format.
func (f *File) JSON() ([]byte, error) {
	out := []byte(`{"scopes":[]}`)
	var err error

	for i, s := range f.Scopes {
		prefix := fmt.Sprintf("scopes.%d", i)
		if out, err = sjson.SetBytes(out, prefix+".name", s.Name); err != nil {
			return nil, err
		}
		if out, err = sjson.SetRawBytes(out, prefix+".bindings", []byte("[]")); err != nil {
			return nil, err
		}

		for j, b := range s.Bindings {
			bp := fmt.Sprintf("%s.bindings.%d", prefix, j)
			if len(b.Keys) == 1 {
				out, err = sjson.SetBytes(out, bp+".keys", b.Keys[0])
			} else {
				out, err = sjson.SetBytes(out, bp+".keys", b.Keys)
			}
			if err != nil {
				return nil, err
			}
			if out, err = setIfNotEmpty(out, bp+".action", b.Action); err != nil {
				return nil, err
			}
			if out, err = setIfNotEmpty(out, bp+".lua", b.Lua); err != nil {
				return nil, err
			}
			if out, err = setIfNotEmpty(out, bp+".description", b.Description); err != nil {
				return nil, err
			}
		}
	}

	return pretty.Pretty(out), nil
}

// ExportStack encodes the live scope stack, top first, as JSON:
//
//	{"depth": 2, "scopes": [{"id": "...", "name": "dialog", "combos": ["esc"]}]}
//
// Actions are Go closures and are not exported.
func ExportStack(st *scope.Stack) ([]byte, error) {
	out := []byte(`{"scopes":[]}`)
	out, err := sjson.SetBytes(out, "depth", st.Depth())
	if err != nil {
		return nil, err
	}

	for i, s := range st.Scopes() {
		prefix := fmt.Sprintf("scopes.%d", i)
		if out, err = sjson.SetBytes(out, prefix+".id", s.ID.String()); err != nil {
			return nil, err
		}
		if out, err = sjson.SetBytes(out, prefix+".name", s.Name); err != nil {
			return nil, err
		}
		if out, err = sjson.SetBytes(out, prefix+".combos", s.Bindings()); err != nil {
			return nil, err
		}
	}

	return pretty.Pretty(out), nil
}

func setIfNotEmpty(doc []byte, path, value string) ([]byte, error) {
	if value == "" {
		return doc, nil
	}
	return sjson.SetBytes(doc, path, value)
}
