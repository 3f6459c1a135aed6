package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/palc-lang/palc/pkg/cli"
	"github.com/palc-lang/palc/pkg/codegen"
	"github.com/palc-lang/palc/pkg/config"
	"github.com/palc-lang/palc/pkg/util"
)

func main() {
	app := cli.NewApp("palc")
	app.Synopsis = "[options]"
	app.Description = "Code generator for the PAL language. Compiles one of the built-in sample programs to LLVM IR; the frontend hands over trees in the same form."

	var (
		sample   string
		outFile  string
		list     bool
		noVerify bool
		toggles  []string
	)

	fs := app.FlagSet
	fs.String(&sample, "sample", "s", "nested", "name", "Compile the named built-in sample program.")
	fs.String(&outFile, "output", "o", "-", "file", "Place the textual IR into <file>; '-' means stdout.")
	fs.Bool(&list, "list", "l", false, "List the built-in sample programs and exit.")
	fs.Bool(&noVerify, "no-verify", "", false, "Skip the structural validator pass.")
	fs.Prefix(&toggles, "W", "Enable or disable a warning (e.g. -Wno-unreachable-code, -Wall).")
	fs.Prefix(&toggles, "F", "Enable or disable a feature (e.g. -Fstrict-return, -Fno-named-slots).")

	cfg := config.NewConfig()

	app.Action = func(args []string) error {
		if len(args) > 0 {
			util.Error("unexpected argument %q; this driver compiles built-in samples only", args[0])
		}

		for _, t := range toggles {
			if !cfg.ApplyFlag(t) {
				util.Warn(cfg, config.WarnExtra, "unknown flag -%s ignored", t)
			}
		}
		if noVerify {
			cfg.SetFeature(config.FeatVerify, false)
		}

		if list {
			fmt.Println(strings.Join(sampleNames(), "\n"))
			return nil
		}

		build, ok := samples[sample]
		if !ok {
			util.Error("unknown sample %q; run with --list to see what is available", sample)
		}

		gen := codegen.NewGenerator(cfg)
		m, err := gen.Compile(build())
		if err != nil {
			util.Error("%v", err)
		}

		out := os.Stdout
		if outFile != "-" {
			f, err := os.Create(outFile)
			if err != nil {
				util.Error("cannot create %s: %v", outFile, err)
			}
			defer f.Close()
			out = f
		}
		fmt.Fprint(out, m.String())
		return nil
	}

	if err := app.Run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
