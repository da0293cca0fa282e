package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/git-pkgs/purl2src/internal/core"
)

func sampleResults() (map[string]*core.Result, []string) {
	results := map[string]*core.Result{
		"pkg:npm/lodash@4.17.21": {
			PURL:        "pkg:npm/lodash@4.17.21",
			DownloadURL: "https://registry.npmjs.org/lodash/-/lodash-4.17.21.tgz",
			Validated:   true,
			Method:      core.MethodDirect,
			Status:      core.StatusSuccess,
		},
		"pkg:npm/no-such-pkg@0.0.0": {
			PURL:   "pkg:npm/no-such-pkg@0.0.0",
			Method: core.MethodNone,
			Error:  "Failed to resolve download URL",
			Status: core.StatusFailed,
		},
	}
	order := []string{"pkg:npm/lodash@4.17.21", "pkg:npm/no-such-pkg@0.0.0"}
	return results, order
}

func TestWritePlain(t *testing.T) {
	results, order := sampleResults()
	var buf strings.Builder
	if err := Write(&buf, FormatPlain, results, order); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	want := "pkg:npm/lodash@4.17.21 -> https://registry.npmjs.org/lodash/-/lodash-4.17.21.tgz\n" +
		"pkg:npm/no-such-pkg@0.0.0 -> ERROR: Failed to resolve download URL\n"
	if buf.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteJSON(t *testing.T) {
	results, order := sampleResults()
	var buf strings.Builder
	if err := Write(&buf, FormatJSON, results, order); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var decoded []core.Result
	if err := json.Unmarshal([]byte(buf.String()), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d results, want 2", len(decoded))
	}
	if decoded[0].PURL != "pkg:npm/lodash@4.17.21" {
		t.Errorf("first result %q, input order not preserved", decoded[0].PURL)
	}
	if decoded[1].Status != core.StatusFailed {
		t.Errorf("second result status %q", decoded[1].Status)
	}
}

func TestWriteCSV(t *testing.T) {
	results, order := sampleResults()
	var buf strings.Builder
	if err := Write(&buf, FormatCSV, results, order); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("%d lines, want header plus 2 rows", len(lines))
	}
	if lines[0] != "purl,download_url,status,method" {
		t.Errorf("header %q", lines[0])
	}
	if !strings.Contains(lines[1], "lodash") || !strings.Contains(lines[1], "success") {
		t.Errorf("row %q", lines[1])
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	results, order := sampleResults()
	var buf strings.Builder
	if err := Write(&buf, Format("xml"), results, order); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestWriteUnorderedExtrasAppended(t *testing.T) {
	results, _ := sampleResults()
	var buf strings.Builder
	if err := Write(&buf, FormatPlain, results, nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Errorf("%d lines, want 2 even without an order slice", n)
	}
}
