package argparse

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fatih/camelcase"
	"gopkg.in/yaml.v3"
)

// Settings are the parser-level options of a Table. Pointer fields keep
// the parser default when absent.
type Settings struct {
	Program        string `toml:"program" yaml:"program" json:"program"`
	Description    string `toml:"description" yaml:"description" json:"description"`
	Epilog         string `toml:"epilog" yaml:"epilog" json:"epilog"`
	Usage          string `toml:"usage" yaml:"usage" json:"usage"`
	PrefixChars    string `toml:"prefix_chars" yaml:"prefix_chars" json:"prefix_chars"`
	FromFileChars  string `toml:"from_file_prefix_chars" yaml:"from_file_prefix_chars" json:"from_file_prefix_chars"`
	IgnoreCase     *bool  `toml:"ignore_case" yaml:"ignore_case" json:"ignore_case"`
	AllowExtras    *bool  `toml:"allow_extras" yaml:"allow_extras" json:"allow_extras"`
	AddHelp        *bool  `toml:"add_help" yaml:"add_help" json:"add_help"`
	OnConflict     string `toml:"on_conflict" yaml:"on_conflict" json:"on_conflict"`
	AttachedValues bool   `toml:"attached_values" yaml:"attached_values" json:"attached_values"`
}

// TableArg describes one argument. Type names resolve through a Registry;
// Default and Const are converted with the argument's converter.
type TableArg struct {
	Member        string   `toml:"member" yaml:"member" json:"member"`
	Name          string   `toml:"name" yaml:"name" json:"name"`
	Aliases       []string `toml:"aliases" yaml:"aliases" json:"aliases"`
	Type          string   `toml:"type" yaml:"type" json:"type"`
	Arity         string   `toml:"arity" yaml:"arity" json:"arity"`
	Default       any      `toml:"default" yaml:"default" json:"default"`
	Const         any      `toml:"const" yaml:"const" json:"const"`
	Required      bool     `toml:"required" yaml:"required" json:"required"`
	Positional    bool     `toml:"positional" yaml:"positional" json:"positional"`
	Group         string   `toml:"group" yaml:"group" json:"group"`
	Help          string   `toml:"help" yaml:"help" json:"help"`
	MetaVar       []string `toml:"metavar" yaml:"metavar" json:"metavar"`
	Choices       []string `toml:"choices" yaml:"choices" json:"choices"`
	IgnoredPrefix string   `toml:"ignored_prefix" yaml:"ignored_prefix" json:"ignored_prefix"`
	IgnoredSuffix string   `toml:"ignored_suffix" yaml:"ignored_suffix" json:"ignored_suffix"`
}

// Table is a declarative parser definition.
type Table struct {
	Parser Settings   `toml:"parser" yaml:"parser" json:"parser"`
	Args   []TableArg `toml:"args" yaml:"args" json:"args"`
}

// Format names a table encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported table format: %s", filepath.Ext(path))
	}
}

// LoadTable decodes a table from r.
func LoadTable(r io.Reader, format Format) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var t Table
	switch format {
	case FormatTOML:
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&t)
	case FormatYAML:
		err = yaml.Unmarshal(data, &t)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&t)
	default:
		return nil, fmt.Errorf("unsupported table format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s table: %w", format, err)
	}
	return &t, nil
}

// LoadTableFile decodes the table at path, choosing the format by extension.
func LoadTableFile(path string) (*Table, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTable(f, format)
}

// FlagName turns a Go member name into an identifier: "MaxCount" with
// prefix "-" becomes "--max-count", "V" becomes "-v".
func FlagName(member, prefix string) string {
	words := camelcase.Split(member)
	parts := words[:0]
	for _, w := range words {
		w = strings.Trim(w, "_- ")
		if w != "" {
			parts = append(parts, strings.ToLower(w))
		}
	}
	name := strings.Join(parts, "-")
	if prefix == "" {
		return name
	}
	if len(name) == 1 {
		return prefix + name
	}
	return prefix + prefix + name
}

// Build creates a parser from the table, resolving types through reg
// (DefaultRegistry when nil).
func (t *Table) Build(reg *Registry) (*Parser, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	s := t.Parser
	p := New(s.Program, s.Description).
		Epilog(s.Epilog).
		Usage(s.Usage).
		PrefixChars(s.PrefixChars).
		FromFilePrefixChars(s.FromFileChars).
		AttachedValues(s.AttachedValues)
	if s.IgnoreCase != nil {
		p.IgnoreCase(*s.IgnoreCase)
	}
	if s.AllowExtras != nil {
		p.AllowExtras(*s.AllowExtras)
	}
	if s.AddHelp != nil {
		p.AddHelp(*s.AddHelp)
	}
	switch strings.ToLower(s.OnConflict) {
	case "", "error":
		p.OnConflict(ConflictError)
	case "replace":
		p.OnConflict(ConflictReplace)
	default:
		return nil, definitionError("", "unknown conflict policy %q", s.OnConflict)
	}

	for i := range t.Args {
		a, err := t.Args[i].build(reg, p.prefixChars)
		if err != nil {
			return nil, err
		}
		if err := p.Add(a); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (ta *TableArg) build(reg *Registry, prefixChars string) (*Arg, error) {
	name := ta.Name
	if name == "" {
		if ta.Member == "" {
			return nil, definitionError("", "table argument needs a name or a member")
		}
		prefix := leadPrefix(prefixChars)
		if ta.Positional {
			prefix = ""
		}
		name = FlagName(ta.Member, prefix)
	}

	typeName := ta.Type
	if typeName == "" {
		typeName = "string"
	}
	a, err := reg.New(typeName, name)
	if err != nil {
		return nil, err
	}
	if ta.Arity != "" {
		ar, err := ParseArity(ta.Arity)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Argument = name
			}
			return nil, err
		}
		a.arity = ar
	}

	a.aliases = append(a.aliases, ta.Aliases...)
	a.key = ta.Member
	a.required = ta.Required
	a.group = ta.Group
	a.help = ta.Help
	a.metaVars = ta.MetaVar
	if ta.IgnoredPrefix != "" {
		a.ignoredPrefix = ta.IgnoredPrefix
	}
	if ta.IgnoredSuffix != "" {
		a.ignoredSuffix = ta.IgnoredSuffix
	}
	if len(ta.Choices) > 0 {
		a.stringChoices(ta.Choices)
	}

	if ta.Default != nil {
		var v any
		if a.arity.Multi() {
			v, err = a.convertDefault(asSlice(ta.Default))
		} else {
			v, err = a.convertDefault(ta.Default)
		}
		if err != nil {
			return nil, fmt.Errorf("default for %s: %w", name, err)
		}
		a.def, a.hasDefault = v, true
	}
	if ta.Const != nil {
		v, err := a.convertDefault(ta.Const)
		if err != nil {
			return nil, fmt.Errorf("const for %s: %w", name, err)
		}
		a.constant, a.hasConstant = v, true
	}
	return a, nil
}

// asSlice wraps a scalar so multi-value defaults always convert element-wise.
func asSlice(v any) any {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice {
		return v
	}
	return []any{v}
}

// TableFor derives a table from the exported fields of a struct (or
// pointer to struct). Tags:
//
//	flag:"name,required,positional,ignore"  identifier and options
//	short:"n"                               single-character alias
//	description:"..."                       help text
//	default:"..."                           default, converted like a token
//	enum:"a,b,c"                            allowed values
//	arity:"+"                               arity, as ParseArity accepts
//	metavar:"FILE"                          help placeholder
//	type:"file"                             registry type override
//	group:"net"                             help group
//
// Nested structs become help groups named by their group tag or lower-case
// field name. Field types resolve through reg (DefaultRegistry when nil);
// a slice of a registered type becomes that type with arity "+".
//
//nolint:gocognit // one branch per tag keeps the mapping readable.
func TableFor(v any, reg *Registry) (*Table, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, definitionError("", "TableFor needs a struct, got %T", v)
	}
	table := &Table{}
	if err := tableFields(table, t, "", "", reg); err != nil {
		return nil, err
	}
	return table, nil
}

func tableFields(table *Table, t reflect.Type, memberPrefix, group string, reg *Registry) error {
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, opts := parseFlagTag(field.Tag.Get("flag"))
		if opts["ignore"] || name == "-" {
			continue
		}

		ft := field.Type
		if _, ok := reg.NameFor(ft); !ok && ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		member := memberPrefix + field.Name

		if _, known := reg.NameFor(ft); !known && ft.Kind() == reflect.Struct {
			if field.Anonymous {
				if err := tableFields(table, ft, memberPrefix, group, reg); err != nil {
					return err
				}
				continue
			}
			nested := field.Tag.Get("group")
			if nested == "" {
				nested = strings.ToLower(field.Name)
			}
			if group != "" {
				nested = group + "." + nested
			}
			if err := tableFields(table, ft, member+".", nested, reg); err != nil {
				return err
			}
			continue
		}

		ta := TableArg{
			Member:     member,
			Type:       field.Tag.Get("type"),
			Arity:      field.Tag.Get("arity"),
			Required:   opts["required"],
			Positional: opts["positional"],
			Group:      group,
			Help:       field.Tag.Get("description"),
		}
		if g := field.Tag.Get("group"); g != "" {
			ta.Group = g
		}
		if ta.Type == "" {
			typeName, multi, ok := inferType(ft, reg)
			if !ok {
				return definitionError(field.Name, "field %s: no registered type for %s", field.Name, field.Type)
			}
			ta.Type = typeName
			if multi && ta.Arity == "" {
				ta.Arity = "+"
			}
		}
		switch {
		case ta.Positional:
			ta.Name = cmp.Or(name, strings.ToLower(field.Name))
		case name == "":
			ta.Name = FlagName(field.Name, "-")
		case strings.HasPrefix(name, "-"):
			ta.Name = name
		case len(name) == 1:
			ta.Name = "-" + name
		default:
			ta.Name = "--" + name
		}
		if short := field.Tag.Get("short"); short != "" {
			ta.Aliases = []string{"-" + strings.TrimLeft(short, "-")}
		}
		if d, ok := field.Tag.Lookup("default"); ok {
			if ta.Arity == "+" || ta.Arity == "*" {
				ta.Default = splitList(d)
			} else {
				ta.Default = d
			}
		}
		if e := field.Tag.Get("enum"); e != "" {
			ta.Choices = splitList(e)
		}
		if mv := field.Tag.Get("metavar"); mv != "" {
			ta.MetaVar = strings.Fields(mv)
		}
		table.Args = append(table.Args, ta)
	}
	return nil
}

func inferType(t reflect.Type, reg *Registry) (string, bool, bool) {
	if name, ok := reg.NameFor(t); ok {
		return name, false, true
	}
	if t.Kind() == reflect.Slice {
		if name, ok := reg.NameFor(t.Elem()); ok {
			return name, true, true
		}
	}
	return "", false, false
}

// parseFlagTag splits `flag:"name,opt,opt"` into the name and its options.
func parseFlagTag(tag string) (string, map[string]bool) {
	opts := make(map[string]bool)
	if tag == "" {
		return "", opts
	}
	parts := strings.Split(tag, ",")
	for _, o := range parts[1:] {
		if o = strings.TrimSpace(o); o != "" {
			opts[o] = true
		}
	}
	return strings.TrimSpace(parts[0]), opts
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
