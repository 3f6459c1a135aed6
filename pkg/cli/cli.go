// Package cli is a small flag parser and help-page generator for the
// driver. It supports long and short flags, and prefix flags like -W...
// and -F... whose suffixes are collected verbatim for the caller to
// interpret.
package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/term"
)

type Value interface {
	String() string
	Set(string) error
}

type stringValue struct{ p *string }

func (v *stringValue) Set(s string) error { *v.p = s; return nil }
func (v *stringValue) String() string     { return *v.p }

type boolValue struct{ p *bool }

func (v *boolValue) Set(s string) error {
	if s == "" {
		*v.p = true
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid boolean value %q: %w", s, err)
	}
	*v.p = b
	return nil
}
func (v *boolValue) String() string { return strconv.FormatBool(*v.p) }

type listValue struct{ p *[]string }

func (v *listValue) Set(s string) error { *v.p = append(*v.p, s); return nil }
func (v *listValue) String() string     { return strings.Join(*v.p, ", ") }

type Flag struct {
	Name      string
	Shorthand string
	Usage     string
	Value     Value
	DefValue  string
	Arg       string // placeholder in help, e.g. "file"; empty for booleans
}

type FlagSet struct {
	name     string
	flags    map[string]*Flag
	short    map[string]*Flag
	prefixes map[string]*Flag
	args     []string
}

func NewFlagSet(name string) *FlagSet {
	return &FlagSet{
		name:     name,
		flags:    make(map[string]*Flag),
		short:    make(map[string]*Flag),
		prefixes: make(map[string]*Flag),
	}
}

func (f *FlagSet) Args() []string { return f.args }

func (f *FlagSet) String(p *string, name, shorthand, value, arg, usage string) {
	*p = value
	f.Var(&stringValue{p}, name, shorthand, value, arg, usage)
}

func (f *FlagSet) Bool(p *bool, name, shorthand string, value bool, usage string) {
	*p = value
	f.Var(&boolValue{p}, name, shorthand, strconv.FormatBool(value), "", usage)
}

func (f *FlagSet) List(p *[]string, name, shorthand, arg, usage string) {
	*p = nil
	f.Var(&listValue{p}, name, shorthand, "", arg, usage)
}

// Prefix registers a prefix flag: every argument of the form -<prefix>rest
// appends "rest" to p.
func (f *FlagSet) Prefix(p *[]string, prefix, usage string) {
	*p = nil
	f.Var(&listValue{p}, prefix, "", "", "", usage)
	f.prefixes[prefix] = f.flags[prefix]
}

func (f *FlagSet) Var(value Value, name, shorthand, defValue, arg, usage string) {
	if name == "" {
		panic("flag name cannot be empty")
	}
	if _, ok := f.flags[name]; ok {
		panic("flag redefined: " + name)
	}
	fl := &Flag{Name: name, Shorthand: shorthand, Usage: usage, Value: value, DefValue: defValue, Arg: arg}
	f.flags[name] = fl
	if shorthand != "" {
		if _, ok := f.short[shorthand]; ok {
			panic("shorthand redefined: " + shorthand)
		}
		f.short[shorthand] = fl
	}
}

func (f *FlagSet) Parse(arguments []string) error {
	f.args = nil
	for i := 0; i < len(arguments); i++ {
		arg := arguments[i]
		if len(arg) < 2 || arg[0] != '-' {
			f.args = append(f.args, arg)
			continue
		}
		if arg == "--" {
			f.args = append(f.args, arguments[i+1:]...)
			break
		}
		var err error
		if strings.HasPrefix(arg, "--") {
			err = f.parseLong(arg, arguments, &i)
		} else {
			err = f.parseShort(arg, arguments, &i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (f *FlagSet) parseLong(arg string, arguments []string, i *int) error {
	name, inline, hasInline := strings.Cut(arg[2:], "=")
	fl, ok := f.flags[name]
	if !ok {
		return fmt.Errorf("unknown flag: --%s", name)
	}
	if hasInline {
		return fl.Value.Set(inline)
	}
	if _, isBool := fl.Value.(*boolValue); isBool {
		return fl.Value.Set("")
	}
	if *i+1 >= len(arguments) {
		return fmt.Errorf("flag needs an argument: --%s", name)
	}
	*i++
	return fl.Value.Set(arguments[*i])
}

func (f *FlagSet) parseShort(arg string, arguments []string, i *int) error {
	for prefix, fl := range f.prefixes {
		if strings.HasPrefix(arg[1:], prefix) && len(arg) > len(prefix)+1 {
			return fl.Value.Set(arg[1:])
		}
	}
	sh := arg[1:2]
	fl, ok := f.short[sh]
	if !ok {
		return fmt.Errorf("unknown flag: -%s", sh)
	}
	if _, isBool := fl.Value.(*boolValue); isBool {
		return fl.Value.Set("")
	}
	if rest := arg[2:]; rest != "" {
		return fl.Value.Set(rest)
	}
	if *i+1 >= len(arguments) {
		return fmt.Errorf("flag needs an argument: -%s", sh)
	}
	*i++
	return fl.Value.Set(arguments[*i])
}

type App struct {
	Name        string
	Synopsis    string
	Description string
	FlagSet     *FlagSet
	Action      func(args []string) error
}

func NewApp(name string) *App {
	return &App{Name: name, FlagSet: NewFlagSet(name)}
}

func (a *App) Run(arguments []string) error {
	help := false
	a.FlagSet.Bool(&help, "help", "h", false, "Display this information")

	if err := a.FlagSet.Parse(arguments); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintf(os.Stderr, "Run '%s --help' for usage.\n", a.Name)
		return err
	}
	if help {
		a.printHelp(os.Stdout)
		return nil
	}
	if a.Action != nil {
		return a.Action(a.FlagSet.Args())
	}
	return nil
}

func (a *App) printHelp(w *os.File) {
	var sb strings.Builder
	width := terminalWidth()

	fmt.Fprintf(&sb, "Usage: %s %s\n", a.Name, a.Synopsis)
	if a.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", a.Description)
	}

	flags := make([]*Flag, 0, len(a.FlagSet.flags))
	left := 0
	for _, fl := range a.FlagSet.flags {
		flags = append(flags, fl)
		if n := len(a.flagColumn(fl)); n > left {
			left = n
		}
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].Name < flags[j].Name })

	sb.WriteString("\nOptions\n")
	for _, fl := range flags {
		usage := fl.Usage
		if fl.DefValue != "" && fl.DefValue != "false" && fl.Arg != "" {
			usage += fmt.Sprintf(" (default %s)", fl.DefValue)
		}
		lines := wrapText(usage, max(width-left-6, 10))
		for n, line := range lines {
			col := ""
			if n == 0 {
				col = a.flagColumn(fl)
			}
			fmt.Fprintf(&sb, "    %-*s  %s\n", left, col, line)
		}
	}
	fmt.Fprint(w, sb.String())
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (a *App) flagColumn(fl *Flag) string {
	if _, isPrefix := a.FlagSet.prefixes[fl.Name]; isPrefix {
		return "-" + fl.Name + "..."
	}
	var b strings.Builder
	if fl.Shorthand != "" {
		fmt.Fprintf(&b, "-%s, ", fl.Shorthand)
	}
	fmt.Fprintf(&b, "--%s", fl.Name)
	if fl.Arg != "" {
		fmt.Fprintf(&b, " <%s>", fl.Arg)
	}
	return b.String()
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		return 80
	}
	return width
}

func wrapText(text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var cur strings.Builder
	for _, word := range words {
		if cur.Len() > 0 && cur.Len()+1+len(word) > maxWidth {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(word)
	}
	lines = append(lines, cur.String())
	return lines
}
