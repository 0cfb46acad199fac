package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/huangsam/bcat/internal/contract"
	"github.com/huangsam/bcat/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// mappingReport combines the snapshot rules and the backend status for output.
type mappingReport struct {
	Status schema.MappingStatus `json:"status"`
	Rules  []mappingRule        `json:"rules"`
}

// mappingRule is one flattened team or scenario override.
type mappingRule struct {
	Kind       string `json:"kind"` // "team" or "scenario"
	Key        string `json:"key"`
	PatternRef string `json:"pattern_ref"`
}

// WriteMapping outputs the mapping snapshot and backend status, dispatching
// based on the output format configured. A nil table means no snapshot has
// ever been fetched.
func WriteMapping(table *schema.MappingTable, status schema.MappingStatus, cfg *contract.Config) error {
	report := mappingReport{Status: status, Rules: flattenRules(table)}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"kind", "key", "pattern_ref"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, r := range report.Rules {
					if err := cw.Write([]string{r.Kind, r.Key, r.PatternRef}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMappingText(report, w)
		}, "Wrote table")
	}
}

// writeMappingText generates and writes the human-readable mapping report.
func writeMappingText(report mappingReport, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Backend: %s (connected: %s)\n",
		report.Status.Backend, strconv.FormatBool(report.Status.Connected)); err != nil {
		return err
	}
	if report.Status.Error != "" {
		if _, err := fmt.Fprintf(writer, "Error: %s\n", report.Status.Error); err != nil {
			return err
		}
	}
	if !report.Status.FetchedAt.IsZero() {
		if _, err := fmt.Fprintf(writer, "Fetched: %s\n",
			report.Status.FetchedAt.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}

	if len(report.Rules) == 0 {
		_, err := fmt.Fprintln(writer, "No mapping rules")
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Kind", "Key", "Pattern"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range report.Rules {
		data = append(data, []string{r.Kind, r.Key, r.PatternRef})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "Showing %d team and %d scenario rules\n",
		report.Status.TeamRules, report.Status.ScenarioRules)
	return err
}

// flattenRules turns the two rule namespaces into sorted display rows,
// teams first.
func flattenRules(table *schema.MappingTable) []mappingRule {
	if table == nil {
		return nil
	}
	rules := make([]mappingRule, 0, len(table.Teams)+len(table.Scenarios))
	for _, key := range sortedKeys(table.Teams) {
		rules = append(rules, mappingRule{Kind: "team", Key: key, PatternRef: table.Teams[key]})
	}
	for _, key := range sortedKeys(table.Scenarios) {
		rules = append(rules, mappingRule{Kind: "scenario", Key: key, PatternRef: table.Scenarios[key]})
	}
	return rules
}

// sortedKeys returns map keys in sorted order for stable output.
func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
