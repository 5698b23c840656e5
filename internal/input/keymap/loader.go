package keymap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
)

// Format identifies a keymap file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFor returns the format implied by a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadFile reads and parses a keymap file.
func LoadFile(path string) (*File, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keymap file: %w", err)
	}

	f, err := Parse(format, data)
	if err != nil {
		return nil, fmt.Errorf("parsing keymap %s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse parses keymap data in the given format and validates it.
func Parse(format Format, data []byte) (*File, error) {
	var (
		f   *File
		err error
	)
	switch format {
	case FormatTOML:
		f, err = parseTOML(data)
	case FormatJSON:
		f, err = parseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// tomlFile is the TOML structure for keymap files.
type tomlFile struct {
	Scopes []tomlScope `toml:"scope"`
}

type tomlScope struct {
	Name     string        `toml:"name"`
	Bindings []tomlBinding `toml:"binding"`
}

type tomlBinding struct {
	Keys        any    `toml:"keys"`
	Action      string `toml:"action"`
	Lua         string `toml:"lua"`
	Description string `toml:"description"`
}

func parseTOML(data []byte) (*File, error) {
	var raw tomlFile
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding toml: %w", err)
	}

	f := &File{Scopes: make([]Scope, 0, len(raw.Scopes))}
	for _, rs := range raw.Scopes {
		s := Scope{Name: rs.Name, Bindings: make([]Binding, 0, len(rs.Bindings))}
		for _, rb := range rs.Bindings {
			keys, err := tomlKeys(rb.Keys)
			if err != nil {
				return nil, fmt.Errorf("scope %s: %w", rs.Name, err)
			}
			s.Bindings = append(s.Bindings, Binding{
				Keys:        keys,
				Action:      rb.Action,
				Lua:         rb.Lua,
				Description: rb.Description,
			})
		}
		f.Scopes = append(f.Scopes, s)
	}
	return f, nil
}

// tomlKeys accepts a string or an array of strings.
func tomlKeys(v any) ([]string, error) {
	switch keys := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{keys}, nil
	case []any:
		out := make([]string, 0, len(keys))
		for _, item := range keys {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: keys must be strings, got %T", ErrInvalidBinding, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: keys must be a string or array, got %T", ErrInvalidBinding, v)
	}
}

func parseJSON(data []byte) (*File, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decoding json: invalid document")
	}

	scopes := gjson.GetBytes(data, "scopes")
	if scopes.Exists() && !scopes.IsArray() {
		return nil, fmt.Errorf("decoding json: scopes must be an array")
	}

	f := &File{}
	var err error
	scopes.ForEach(func(_, rs gjson.Result) bool {
		s := Scope{Name: rs.Get("name").String()}
		rs.Get("bindings").ForEach(func(_, rb gjson.Result) bool {
			var keys []string
			keys, err = jsonKeys(rb.Get("keys"))
			if err != nil {
				err = fmt.Errorf("scope %s: %w", s.Name, err)
				return false
			}
			s.Bindings = append(s.Bindings, Binding{
				Keys:        keys,
				Action:      rb.Get("action").String(),
				Lua:         rb.Get("lua").String(),
				Description: rb.Get("description").String(),
			})
			return true
		})
		if err != nil {
			return false
		}
		f.Scopes = append(f.Scopes, s)
		return true
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func jsonKeys(v gjson.Result) ([]string, error) {
	switch {
	case !v.Exists():
		return nil, nil
	case v.Type == gjson.String:
		return []string{v.String()}, nil
	case v.IsArray():
		items := v.Array()
		out := make([]string, 0, len(items))
		for _, item := range items {
			if item.Type != gjson.String {
				return nil, fmt.Errorf("%w: keys must be strings, got %s", ErrInvalidBinding, item.Type)
			}
			out = append(out, item.String())
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: keys must be a string or array, got %s", ErrInvalidBinding, v.Type)
	}
}
