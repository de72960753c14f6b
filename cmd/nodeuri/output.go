package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Resinat/nodeuri/internal/config"
	"github.com/Resinat/nodeuri/internal/inspect"
	"gopkg.in/yaml.v3"
)

func writeReport(w io.Writer, format config.OutputFormat, report *inspect.Report) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeText(w, report)
	}
}

// writeText prints one tab-separated line per entry:
// label, host, port, scheme, country.
func writeText(w io.Writer, report *inspect.Report) error {
	for _, e := range report.Entries {
		fields := []string{e.Label, e.Host, e.Port, e.Scheme, e.Country}
		if _, err := fmt.Fprintln(w, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "# total=%d undecodable=%d duplicates=%d run=%s\n",
		report.Total, report.Undecodable, report.Duplicates, report.ID)
	return err
}
