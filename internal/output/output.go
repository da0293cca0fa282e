// Package output formats resolution results for the CLI in plain, JSON and
// CSV forms.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/git-pkgs/purl2src/internal/core"
)

// Format names a supported output encoding.
type Format string

const (
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// Write renders results to w in the given format. Results are ordered by
// the order slice, which carries the input PURLs as read; unknown keys are
// skipped so callers can pass a superset.
func Write(w io.Writer, format Format, results map[string]*core.Result, order []string) error {
	sorted := sequence(results, order)

	switch format {
	case FormatJSON:
		return writeJSON(w, sorted)
	case FormatCSV:
		return writeCSV(w, sorted)
	case FormatPlain, "":
		return writePlain(w, sorted)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// sequence puts results into input order; results not covered by order are
// appended sorted, so nothing is silently dropped.
func sequence(results map[string]*core.Result, order []string) []*core.Result {
	out := make([]*core.Result, 0, len(results))
	seen := make(map[string]bool, len(order))

	for _, key := range order {
		if r, ok := results[key]; ok && !seen[key] {
			out = append(out, r)
			seen[key] = true
		}
	}

	var rest []string
	for key := range results {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		out = append(out, results[key])
	}
	return out
}

func writePlain(w io.Writer, results []*core.Result) error {
	for _, r := range results {
		var err error
		if r.Status == core.StatusSuccess {
			_, err = fmt.Fprintf(w, "%s -> %s\n", r.PURL, r.DownloadURL)
		} else {
			_, err = fmt.Fprintf(w, "%s -> ERROR: %s\n", r.PURL, r.Error)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, results []*core.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func writeCSV(w io.Writer, results []*core.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"purl", "download_url", "status", "method"}); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{r.PURL, r.DownloadURL, string(r.Status), string(r.Method)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
