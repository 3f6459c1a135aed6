package main

import (
	"strings"
	"testing"

	"github.com/palc-lang/palc/pkg/codegen"
)

// Every built-in sample must compile and pass the structural validator.
func TestSamplesCompile(t *testing.T) {
	for _, name := range sampleNames() {
		t.Run(name, func(t *testing.T) {
			m, err := codegen.NewGenerator(nil).Compile(samples[name]())
			if err != nil {
				t.Fatalf("sample %s: %v", name, err)
			}
			if !strings.Contains(m.String(), "define") {
				t.Errorf("sample %s produced no function definitions", name)
			}
		})
	}
}

// Builders must hand out fresh trees: compiling the same sample twice from
// two generators has to succeed and produce identical IR.
func TestSamplesAreRebuildable(t *testing.T) {
	for _, name := range sampleNames() {
		first, err := codegen.NewGenerator(nil).Compile(samples[name]())
		if err != nil {
			t.Fatalf("sample %s: %v", name, err)
		}
		second, err := codegen.NewGenerator(nil).Compile(samples[name]())
		if err != nil {
			t.Fatalf("sample %s, second compilation: %v", name, err)
		}
		if first.String() != second.String() {
			t.Errorf("sample %s compiles differently on the second run", name)
		}
	}
}
