package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLongAndShort(t *testing.T) {
	fs := NewFlagSet("test")
	var out string
	var verbose bool
	fs.String(&out, "output", "o", "-", "file", "")
	fs.Bool(&verbose, "verbose", "v", false, "")

	if err := fs.Parse([]string{"--output", "a.ll", "-v", "rest"}); err != nil {
		t.Fatal(err)
	}
	if out != "a.ll" || !verbose {
		t.Errorf("got output=%q verbose=%v", out, verbose)
	}
	if diff := cmp.Diff([]string{"rest"}, fs.Args()); diff != "" {
		t.Errorf("positional args (-want +got):\n%s", diff)
	}
}

func TestParseInlineValue(t *testing.T) {
	fs := NewFlagSet("test")
	var out string
	fs.String(&out, "output", "o", "-", "file", "")

	if err := fs.Parse([]string{"--output=x.ll"}); err != nil {
		t.Fatal(err)
	}
	if out != "x.ll" {
		t.Errorf("got %q, want x.ll", out)
	}

	if err := fs.Parse([]string{"-ox.ll"}); err != nil {
		t.Fatal(err)
	}
	if out != "x.ll" {
		t.Errorf("attached shorthand value: got %q, want x.ll", out)
	}
}

func TestParsePrefixFlags(t *testing.T) {
	fs := NewFlagSet("test")
	var toggles []string
	fs.Prefix(&toggles, "W", "")
	fs.Prefix(&toggles, "F", "")

	if err := fs.Parse([]string{"-Wall", "-Wno-unreachable-code", "-Fstrict-return"}); err != nil {
		t.Fatal(err)
	}
	want := []string{"Wall", "Wno-unreachable-code", "Fstrict-return"}
	if diff := cmp.Diff(want, toggles); diff != "" {
		t.Errorf("collected toggles (-want +got):\n%s", diff)
	}
}

func TestParseDoubleDash(t *testing.T) {
	fs := NewFlagSet("test")
	var verbose bool
	fs.Bool(&verbose, "verbose", "v", false, "")

	if err := fs.Parse([]string{"--", "-v", "--verbose"}); err != nil {
		t.Fatal(err)
	}
	if verbose {
		t.Error("flag after -- was parsed")
	}
	if diff := cmp.Diff([]string{"-v", "--verbose"}, fs.Args()); diff != "" {
		t.Errorf("positional args (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	fs := NewFlagSet("test")
	var out string
	fs.String(&out, "output", "o", "-", "file", "")

	if err := fs.Parse([]string{"--nope"}); err == nil {
		t.Error("unknown long flag accepted")
	}
	if err := fs.Parse([]string{"-x"}); err == nil {
		t.Error("unknown shorthand accepted")
	}
	if err := fs.Parse([]string{"--output"}); err == nil {
		t.Error("missing argument accepted")
	}
}

func TestBoolValues(t *testing.T) {
	fs := NewFlagSet("test")
	var b bool
	fs.Bool(&b, "flag", "", false, "")

	if err := fs.Parse([]string{"--flag=true"}); err != nil {
		t.Fatal(err)
	}
	if !b {
		t.Error("--flag=true did not set the flag")
	}
	if err := fs.Parse([]string{"--flag=nope"}); err == nil {
		t.Error("bad boolean value accepted")
	}
}
