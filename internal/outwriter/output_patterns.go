package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/bcat/internal/contract"
	"github.com/huangsam/bcat/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WritePatterns outputs the catalog listing, dispatching based on the output
// format configured.
func WritePatterns(patterns []schema.Pattern, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, patterns)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"id", "name", "order", "emphasis"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for i := range patterns {
					p := &patterns[i]
					rec := []string{
						strconv.Itoa(p.ID),
						p.Name,
						strconv.Itoa(p.Order),
						formatEmphasis(p.Emphasis),
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePatternsTable(patterns, cfg, fmtFloat, w)
		}, "Wrote table")
	}
}

// writePatternsTable generates and writes the human-readable catalog table.
func writePatternsTable(patterns []schema.Pattern, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"ID", "Name", "Emphasis"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i := range patterns {
		p := &patterns[i]
		data = append(data, []string{
			strconv.Itoa(p.ID),
			p.Name,
			formatEmphasis(p.Emphasis),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if cfg.Detail {
		// Detail mode appends the expected metric bands behind each pattern.
		for i := range patterns {
			p := &patterns[i]
			if _, err := fmt.Fprintf(writer, "%s (#%d):\n", p.Name, p.ID); err != nil {
				return err
			}
			for _, m := range sortedProfileKeys(p.Profile) {
				em := p.Profile[m]
				if _, err := fmt.Fprintf(writer, "  %-24s band=[%s, %s] weight=%s\n",
					m, fmtFloat(em.Min), fmtFloat(em.Max), fmtFloat(em.Weight)); err != nil {
					return err
				}
			}
		}
	}

	_, err := fmt.Fprintf(writer, "Showing %d patterns\n", len(patterns))
	return err
}

// formatEmphasis renders a pattern's dimension ordering compactly.
func formatEmphasis(emphasis [4]schema.Dimension) string {
	parts := make([]string, len(emphasis))
	for i, d := range emphasis {
		parts[i] = string(d)
	}
	return strings.Join(parts, " > ")
}

// sortedProfileKeys returns profile metric keys in sorted order for stable output.
func sortedProfileKeys(profile schema.Profile) []schema.MetricKey {
	out := make([]schema.MetricKey, 0, len(profile))
	for m := range profile {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
