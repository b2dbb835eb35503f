package argparse

import (
	"fmt"
	"io"
	"strings"

	"github.com/dzonerzy/go-argparse/internal/pool"
	argio "github.com/dzonerzy/go-argparse/io"
)

// Usage is what a UsageFormatter renders: the program and its arguments
// split by kind. Optionals start with the help argument when there is one.
type Usage struct {
	Program     string
	PrefixChars string
	Optionals   []*Arg
	Positionals []*Arg
}

// GroupTree is the help group hierarchy built from dotted group paths.
// The root holds ungrouped arguments.
type GroupTree struct {
	Name        string // last path segment
	Path        string // full dotted path
	Positionals []*Arg
	Optionals   []*Arg
	Children    []*GroupTree
}

// Child returns the direct child named name, creating it if needed.
func (g *GroupTree) Child(name string) *GroupTree {
	for _, c := range g.Children {
		if c.Name == name {
			return c
		}
	}
	path := name
	if g.Path != "" {
		path = g.Path + "." + name
	}
	c := &GroupTree{Name: name, Path: path}
	g.Children = append(g.Children, c)
	return c
}

// Find returns the node at the dotted path, or nil.
func (g *GroupTree) Find(path string) *GroupTree {
	if path == "" {
		return g
	}
	node := g
	for _, seg := range strings.Split(path, ".") {
		var next *GroupTree
		for _, c := range node.Children {
			if c.Name == seg {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		node = next
	}
	return node
}

// Empty reports whether the node and all its children have no arguments.
func (g *GroupTree) Empty() bool {
	if len(g.Positionals) > 0 || len(g.Optionals) > 0 {
		return false
	}
	for _, c := range g.Children {
		if !c.Empty() {
			return false
		}
	}
	return true
}

// Help is what a HelpFormatter renders.
type Help struct {
	Usage       Usage
	UsageText   string // replaces the generated usage line when set
	Description string
	Epilog      string
	Groups      *GroupTree
}

// UsageFormatter renders the one-line usage summary.
type UsageFormatter interface {
	FormatUsage(w io.Writer, u Usage) error
}

// HelpFormatter renders the full help text.
type HelpFormatter interface {
	FormatHelp(w io.Writer, h Help) error
}

// Formatter renders both.
type Formatter interface {
	UsageFormatter
	HelpFormatter
}

// DefaultFormatter renders argparse-style help, wrapped to the terminal
// width reported by IO.
type DefaultFormatter struct {
	IO *argio.IOManager
	// MaxInvocationWidth caps the left column; longer invocations put their
	// help text on the next line. Zero means 24.
	MaxInvocationWidth int
}

// NewDefaultFormatter creates a formatter writing styles through m.
func NewDefaultFormatter(m *argio.IOManager) *DefaultFormatter {
	return &DefaultFormatter{IO: m, MaxInvocationWidth: 24}
}

func (f *DefaultFormatter) width() int {
	if f.IO == nil {
		return 80
	}
	return max(f.IO.Width(), 40)
}

func (f *DefaultFormatter) heading(s string) string {
	if f.IO == nil {
		return s
	}
	return f.IO.Sprint(argio.StyleHeading, s)
}

func (f *DefaultFormatter) meta(s string) string {
	if f.IO == nil {
		return s
	}
	return f.IO.Sprint(argio.StyleMeta, s)
}

// FormatUsage writes "usage: prog [-h] [--count COUNT] file".
func (f *DefaultFormatter) FormatUsage(w io.Writer, u Usage) error {
	b := pool.GetBuilder()
	defer pool.PutBuilder(b)
	f.writeUsage(b, u, "")
	_, err := io.WriteString(w, b.String())
	return err
}

func (f *DefaultFormatter) writeUsage(b *strings.Builder, u Usage, text string) {
	lead := "usage: "
	b.WriteString(f.heading("usage:"))
	b.WriteByte(' ')
	if text != "" {
		b.WriteString(text)
		b.WriteByte('\n')
		return
	}

	buf := pool.GetStringSlice()
	defer pool.PutStringSlice(buf)
	parts := *buf
	for _, a := range u.Optionals {
		parts = append(parts, usagePart(a, u.PrefixChars, false))
	}
	for _, a := range u.Positionals {
		parts = append(parts, usagePart(a, u.PrefixChars, true))
	}
	*buf = parts

	indent := len(lead) + len(u.Program) + 1
	b.WriteString(u.Program)
	col := indent - 1
	for _, part := range parts {
		if col+1+len(part) > f.width() && col > indent {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(" ", indent))
			col = indent
		} else {
			b.WriteByte(' ')
			col++
		}
		b.WriteString(part)
		col += len(part)
	}
	b.WriteByte('\n')
}

func usagePart(a *Arg, prefixChars string, positional bool) string {
	mv := MetaVar(a, prefixChars)
	if positional {
		return mv
	}
	s := a.name
	if mv != "" {
		s += " " + mv
	}
	if a.required {
		return s
	}
	return "[" + s + "]"
}

// FormatHelp writes usage, description, argument sections and epilog.
func (f *DefaultFormatter) FormatHelp(w io.Writer, h Help) error {
	b := pool.GetBuilder()
	defer pool.PutBuilder(b)

	f.writeUsage(b, h.Usage, h.UsageText)
	if h.Description != "" {
		b.WriteByte('\n')
		f.writeWrapped(b, h.Description, 0)
	}

	root := h.Groups
	if root == nil {
		root = &GroupTree{Positionals: h.Usage.Positionals, Optionals: h.Usage.Optionals}
	}
	col := f.column(root, h.Usage.PrefixChars)
	if len(root.Positionals) > 0 {
		b.WriteByte('\n')
		b.WriteString(f.heading("positional arguments:"))
		b.WriteByte('\n')
		f.writeArgs(b, root.Positionals, h.Usage.PrefixChars, 2, col, true)
	}
	if len(root.Optionals) > 0 {
		b.WriteByte('\n')
		b.WriteString(f.heading("optional arguments:"))
		b.WriteByte('\n')
		f.writeArgs(b, root.Optionals, h.Usage.PrefixChars, 2, col, false)
	}
	for _, child := range root.Children {
		f.writeGroup(b, child, h.Usage.PrefixChars, 0, col)
	}

	if h.Epilog != "" {
		b.WriteByte('\n')
		f.writeWrapped(b, h.Epilog, 0)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (f *DefaultFormatter) writeGroup(b *strings.Builder, g *GroupTree, prefixChars string, depth, col int) {
	if g.Empty() {
		return
	}
	pad := strings.Repeat("  ", depth)
	b.WriteByte('\n')
	b.WriteString(pad)
	b.WriteString(f.heading(g.Path + ":"))
	b.WriteByte('\n')
	f.writeArgs(b, g.Positionals, prefixChars, 2+2*depth, col, true)
	f.writeArgs(b, g.Optionals, prefixChars, 2+2*depth, col, false)
	for _, c := range g.Children {
		f.writeGroup(b, c, prefixChars, depth+1, col)
	}
}

// column is the start of the help text column shared by every section.
func (f *DefaultFormatter) column(root *GroupTree, prefixChars string) int {
	limit := f.MaxInvocationWidth
	if limit <= 0 {
		limit = 24
	}
	widest := 0
	rows := func(g *GroupTree, indent int) {
		for _, a := range g.Positionals {
			widest = max(widest, indent+len(invocation(a, prefixChars, true)))
		}
		for _, a := range g.Optionals {
			widest = max(widest, indent+len(invocation(a, prefixChars, false)))
		}
	}
	var walk func(g *GroupTree, depth int)
	walk = func(g *GroupTree, depth int) {
		rows(g, 2+2*depth)
		for _, c := range g.Children {
			walk(c, depth+1)
		}
	}
	rows(root, 2)
	for _, c := range root.Children {
		walk(c, 0)
	}
	return min(widest, limit) + 2
}

func (f *DefaultFormatter) writeArgs(b *strings.Builder, args []*Arg, prefixChars string, indent, col int, positional bool) {
	for _, a := range args {
		inv := invocation(a, prefixChars, positional)
		b.WriteString(strings.Repeat(" ", indent))
		b.WriteString(f.meta(inv))
		text := helpText(a)
		if text == "" {
			b.WriteByte('\n')
			continue
		}
		if indent+len(inv)+2 > col {
			b.WriteByte('\n')
			f.writeWrapped(b, text, col)
			continue
		}
		b.WriteString(strings.Repeat(" ", col-indent-len(inv)))
		lines := wrapWords(text, f.width()-col)
		b.WriteString(lines[0])
		b.WriteByte('\n')
		for _, l := range lines[1:] {
			b.WriteString(strings.Repeat(" ", col))
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
}

func (f *DefaultFormatter) writeWrapped(b *strings.Builder, text string, indent int) {
	for _, l := range wrapWords(text, f.width()-indent) {
		b.WriteString(strings.Repeat(" ", indent))
		b.WriteString(l)
		b.WriteByte('\n')
	}
}

// wrapWords splits text into lines of at most width columns. A single word
// longer than width gets its own line.
func wrapWords(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	width = max(width, 10)
	lines := make([]string, 0, 2)
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}

// invocation is the left column of a help row: "-c, --count COUNT" or the
// positional metavar.
func invocation(a *Arg, prefixChars string, positional bool) string {
	mv := MetaVar(a, prefixChars)
	if positional {
		return mv
	}
	s := strings.Join(a.Identifiers(), ", ")
	if mv != "" {
		s += " " + mv
	}
	return s
}

func helpText(a *Arg) string {
	text := a.help
	if len(a.choices) > 0 {
		text = strings.TrimSpace(text + " (choices: " + strings.Join(a.choices, ", ") + ")")
	}
	if a.hasDefault && a.def != nil {
		text = strings.TrimSpace(text + " (default: " + formatDefault(a.def) + ")")
	}
	return text
}

func formatDefault(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	s := fmt.Sprint(v)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return strings.Join(strings.Fields(s[1:len(s)-1]), ", ")
	}
	return s
}

// MetaVar renders the value placeholder of a for help and usage text.
// Explicit metavars are used as given; otherwise optionals use their
// stripped upper-case name and positionals their name. The result reflects
// the arity: "" for Zero, "[X]" for Optional, "[X ...]" for ZeroOrMore,
// "X [X ...]" for OneOrMore and the placeholder repeated n times for
// Exactly(n).
func MetaVar(a *Arg, prefixChars string) string {
	if a.arity == ArityZero {
		return ""
	}
	names := a.metaVars
	if len(names) == 0 {
		base := strings.TrimLeft(a.name, prefixChars)
		if base != a.name {
			base = strings.ToUpper(strings.ReplaceAll(base, "-", "_"))
		}
		names = []string{base}
	}
	m := names[0]

	switch a.arity {
	case ArityOne:
		return m
	case ArityOptional:
		return "[" + m + "]"
	case ArityZeroOrMore:
		return "[" + m + " ...]"
	case ArityOneOrMore:
		return m + " [" + m + " ...]"
	}

	n := int(a.arity)
	if len(names) == n {
		return strings.Join(names, " ")
	}
	return strings.TrimSpace(strings.Repeat(m+" ", n))
}

func (p *Parser) formatterOrDefault() Formatter {
	if p.formatter != nil {
		return p.formatter
	}
	return NewDefaultFormatter(p.io)
}

func (p *Parser) usageData() Usage {
	u := Usage{Program: p.program, PrefixChars: p.prefixChars}
	if h := p.helpArg(); h != nil {
		u.Optionals = append(u.Optionals, h)
	}
	for _, a := range p.args {
		if p.IsPositional(a) {
			u.Positionals = append(u.Positionals, a)
		} else {
			u.Optionals = append(u.Optionals, a)
		}
	}
	return u
}

// Groups builds the help group tree from the registered arguments.
func (p *Parser) Groups() *GroupTree {
	root := &GroupTree{}
	u := p.usageData()
	place := func(a *Arg, positional bool) {
		node := root
		if a.group != "" {
			for _, seg := range strings.Split(a.group, ".") {
				if seg != "" {
					node = node.Child(seg)
				}
			}
		}
		if positional {
			node.Positionals = append(node.Positionals, a)
		} else {
			node.Optionals = append(node.Optionals, a)
		}
	}
	for _, a := range u.Positionals {
		place(a, true)
	}
	for _, a := range u.Optionals {
		place(a, false)
	}
	return root
}

// FormatUsage returns the usage line.
func (p *Parser) FormatUsage() string {
	var b strings.Builder
	_ = p.PrintUsage(&b)
	return b.String()
}

// FormatHelp returns the full help text.
func (p *Parser) FormatHelp() string {
	var b strings.Builder
	_ = p.PrintHelp(&b)
	return b.String()
}

// PrintUsage writes the usage line to w.
func (p *Parser) PrintUsage(w io.Writer) error {
	if p.usage != "" {
		_, err := fmt.Fprintf(w, "usage: %s\n", p.usage)
		return err
	}
	return p.formatterOrDefault().FormatUsage(w, p.usageData())
}

// PrintHelp writes the full help text to w.
func (p *Parser) PrintHelp(w io.Writer) error {
	return p.formatterOrDefault().FormatHelp(w, Help{
		Usage:       p.usageData(),
		UsageText:   p.usage,
		Description: p.description,
		Epilog:      p.epilog,
		Groups:      p.Groups(),
	})
}
