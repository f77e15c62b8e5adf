// Command embergrade is the thin CLI host around pkg/embergrade: it resolves fixture files to an
// *ast.Module (see internal/fixture — the real lexer/parser is an external collaborator), runs the
// checker, and renders diagnostics to the terminal or as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/embergrade/ember/internal/config"
	"github.com/embergrade/ember/internal/diagnostic"
	"github.com/embergrade/ember/internal/fixture"
	"github.com/embergrade/ember/internal/module"
	"github.com/embergrade/ember/pkg/embergrade"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s check [-json] [-dump-config] [-config path] <file.yaml...>\n", os.Args[0])
}

func main() {
	if len(os.Args) < 2 || os.Args[1] != "check" {
		usage()
		os.Exit(2)
	}

	var jsonOutput bool
	var dumpConfig bool
	var configPath string
	var files []string

	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-json":
			jsonOutput = true
		case "-dump-config":
			dumpConfig = true
		case "-config":
			if i+1 >= len(args) {
				usage()
				os.Exit(2)
			}
			i++
			configPath = args[i]
		default:
			files = append(files, args[i])
		}
	}

	settings := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		settings = loaded
	}

	if dumpConfig {
		out, err := config.Dump(settings)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
	}

	if len(files) == 0 {
		if dumpConfig {
			return
		}
		usage()
		os.Exit(2)
	}

	exitCode := 0
	for _, path := range files {
		diags, err := checkFile(path, settings)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exitCode = 1
			continue
		}
		if jsonOutput {
			printJSON(path, diags)
		} else {
			printText(path, diags)
		}
		for _, d := range diags {
			if d.Severity == diagnostic.SeverityError {
				exitCode = 1
			}
		}
	}
	os.Exit(exitCode)
}

func checkFile(path string, settings *config.Settings) ([]diagnostic.Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mod, err := fixture.Decode(data)
	if err != nil {
		return nil, err
	}

	file := &module.FileInfo{
		FilePath:           path,
		DiagnosticSink:     diagnostic.NewSink(),
		DiagnosticSettings: settings,
		ImportMap:          module.ImportMap{},
	}

	report := embergrade.Check(mod, file)
	return report.Diagnostics, nil
}

func printText(path string, diags []diagnostic.Diagnostic) {
	colorize := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	for _, d := range diags {
		sev := string(d.Severity)
		if colorize {
			sev = colorFor(d.Severity) + sev + "\033[0m"
		}
		fmt.Printf("%s:%d:%d: %s: %s\n", path, d.Range.Start.Line+1, d.Range.Start.Column+1, sev, d.Message)
	}
	if len(diags) == 0 {
		fmt.Printf("%s: no issues found\n", path)
	}
}

func colorFor(sev diagnostic.Severity) string {
	switch sev {
	case diagnostic.SeverityError:
		return "\033[31m"
	case diagnostic.SeverityWarning:
		return "\033[33m"
	case diagnostic.SeverityInfo:
		return "\033[36m"
	default:
		return "\033[2m"
	}
}

func printJSON(path string, diags []diagnostic.Diagnostic) {
	type jsonDiag struct {
		File     string `json:"file"`
		Line     int    `json:"line"`
		Column   int    `json:"column"`
		Severity string `json:"severity"`
		Message  string `json:"message"`
		Code     string `json:"code,omitempty"`
		Rule     string `json:"rule,omitempty"`
	}
	out := make([]jsonDiag, 0, len(diags))
	for _, d := range diags {
		out = append(out, jsonDiag{
			File:     path,
			Line:     d.Range.Start.Line + 1,
			Column:   d.Range.Start.Column + 1,
			Severity: string(d.Severity),
			Message:  d.Message,
			Code:     string(d.Code),
			Rule:     string(d.Rule),
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
