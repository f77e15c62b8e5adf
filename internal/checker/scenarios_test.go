package checker

import (
	"os"
	"path"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/embergrade/ember/internal/diagnostic"
	"github.com/embergrade/ember/internal/fixture"
	"github.com/embergrade/ember/internal/module"
)

// TestScenariosGolden runs every scenario bundled in testdata/scenarios.txtar through the
// checker and compares the diagnostics produced against each scenario's expect.txt, matching by
// Code (hard errors) or Rule (lint rules). This is the multi-file golden-fixture integration
// suite: each scenario is self-contained (one fixture module + one expectation list) but they
// travel together in a single archive so the set stays easy to extend.
func TestScenariosGolden(t *testing.T) {
	data, err := os.ReadFile("testdata/scenarios.txtar")
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	archive := txtar.Parse(data)

	modules := map[string][]byte{}
	expectations := map[string][]byte{}
	for _, f := range archive.Files {
		dir := path.Dir(f.Name)
		base := path.Base(f.Name)
		switch base {
		case "module.yaml":
			modules[dir] = f.Data
		case "expect.txt":
			expectations[dir] = f.Data
		}
	}

	if len(modules) == 0 {
		t.Fatal("expected at least one scenario in scenarios.txtar")
	}

	for name, moduleYAML := range modules {
		t.Run(name, func(t *testing.T) {
			mod, err := fixture.Decode(moduleYAML)
			if err != nil {
				t.Fatalf("decoding fixture: %v", err)
			}

			result := Check(mod, &module.FileInfo{
				FilePath:       name,
				DiagnosticSink: diagnostic.NewSink(),
				ImportMap:      module.ImportMap{},
			})

			want := parseExpectations(expectations[name])
			got := map[string]bool{}
			for _, d := range result.Diagnostics {
				if d.Code != "" {
					got[string(d.Code)] = true
				}
				if d.Rule != "" {
					got[string(d.Rule)] = true
				}
			}

			if len(want) == 0 {
				if len(got) != 0 {
					t.Errorf("expected no diagnostics, got %v (full: %+v)", got, result.Diagnostics)
				}
				return
			}
			for w := range want {
				if !got[w] {
					t.Errorf("expected diagnostic %q, got %v (full: %+v)", w, got, result.Diagnostics)
				}
			}
		})
	}
}

func parseExpectations(data []byte) map[string]bool {
	out := map[string]bool{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "none" {
			continue
		}
		out[line] = true
	}
	return out
}
