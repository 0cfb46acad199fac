package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/bcat/internal/contract"
	"github.com/huangsam/bcat/internal/parquet"
	"github.com/huangsam/bcat/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const topNContributions = 3

// WriteScore outputs a structured score, dispatching based on the output
// format configured.
func WriteScore(score *schema.BCATScore, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeScoreJSONResults(score, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeScoreCSVResults(score, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		rec := parquet.ConvertScore(score, time.Now())
		if err := parquet.WriteScoreRecordsParquet([]parquet.ScoreRecord{rec}, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreText(score, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeScoreJSONResults handles opening the file and calling the JSON writer.
func writeScoreJSONResults(score *schema.BCATScore, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		type JSONScore struct {
			Label string `json:"label"`
			*schema.BCATScore
		}
		return writeJSON(w, JSONScore{
			Label:     contract.GetPlainLabel(score.AggregateScore),
			BCATScore: score,
		})
	}, "Wrote JSON")
}

// writeScoreCSVResults writes the score as one flat record, mirroring the
// Parquet column layout so either export lands the same shape.
func writeScoreCSVResults(score *schema.BCATScore, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{
			"conversation_id",
			"pattern_id",
			"pattern_name",
			"selection_method",
			"aggregate_score",
			"label",
			"score_precision",
			"score_resolve",
			"score_innovation",
			"score_harmony",
			"missing_metrics",
		}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			rec := []string{
				score.ConversationID,
				strconv.Itoa(score.Pattern.ID),
				score.Pattern.Name,
				string(score.SelectionMethod),
				fmtFloat(score.AggregateScore),
				contract.GetPlainLabel(score.AggregateScore),
				fmtFloat(score.Dimensions[schema.DimPrecision].Score),
				fmtFloat(score.Dimensions[schema.DimResolve].Score),
				fmtFloat(score.Dimensions[schema.DimInnovation].Score),
				fmtFloat(score.Dimensions[schema.DimHarmony].Score),
				strconv.FormatBool(score.MissingMetrics),
			}
			return cw.Write(rec)
		})
	}, "Wrote CSV")
}

// writeScoreText generates and writes the human-readable score breakdown.
func writeScoreText(score *schema.BCATScore, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Pattern: %s (#%d, %s)\n",
		score.Pattern.Name, score.Pattern.ID, score.SelectionMethod); err != nil {
		return err
	}
	if score.ConversationID != "" {
		if _, err := fmt.Fprintf(writer, "Conversation: %s\n", score.ConversationID); err != nil {
			return err
		}
	}

	if score.MissingMetrics {
		if _, err := fmt.Fprintf(writer, "Aggregate: %s %s (no input metrics overlap this profile)\n",
			fmtFloat(score.AggregateScore), scoreLabel(score.AggregateScore, cfg)); err != nil {
			return err
		}
		return writeScoreFooter(writer, duration, cfg)
	}

	if err := writeDimensionTable(score, cfg, fmtFloat, writer); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Aggregate: %s %s\n",
		fmtFloat(score.AggregateScore), scoreLabel(score.AggregateScore, cfg)); err != nil {
		return err
	}

	if len(score.AllAlignments) > 0 {
		if _, err := fmt.Fprintln(writer); err != nil {
			return err
		}
		if err := writeLeaderboardTable(score.AllAlignments, cfg, fmtFloat, writer); err != nil {
			return err
		}
	}

	return writeScoreFooter(writer, duration, cfg)
}

// writeDimensionTable renders one row per scored dimension, with optional
// per-metric detail rows below it.
func writeDimensionTable(score *schema.BCATScore, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Dimension", "Score", "Weight", "Label"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range sortedScoreDimensions(score.Dimensions) {
		ds := score.Dimensions[d]
		data = append(data, []string{
			string(d),
			fmtFloat(ds.Score),
			fmtFloat(ds.Weight),
			scoreLabel(ds.Score, cfg),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if !cfg.Detail {
		return nil
	}
	// Detail mode appends the raw metric inputs behind each dimension.
	for _, d := range sortedScoreDimensions(score.Dimensions) {
		ds := score.Dimensions[d]
		if _, err := fmt.Fprintf(writer, "%s:\n", d); err != nil {
			return err
		}
		for _, m := range sortedMetricInputs(ds.Metrics) {
			in := ds.Metrics[m]
			if _, err := fmt.Fprintf(writer, "  %-24s observed=%s fit=%s weight=%s\n",
				m, fmtFloat(in.Observed), fmtFloat(in.Fit), fmtFloat(in.Weight)); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeLeaderboardTable renders the ranked alignments retained from auto-best
// selection.
func writeLeaderboardTable(alignments []schema.AlignmentResult, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Rank", "Pattern", "Score", "Label"}
	if cfg.Explain {
		headers = append(headers, "Explain")
	}
	table.Header(headers)
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	limit := min(len(alignments), cfg.ResultLimit)
	nameWidth := getMaxTableNameWidth(cfg)

	var data [][]string
	for i := range limit {
		a := alignments[i]
		row := []string{
			strconv.Itoa(i + 1),
			truncateName(a.Pattern.Name, nameWidth),
			fmtFloat(a.Score),
			scoreLabel(a.Score, cfg),
		}
		if cfg.Explain {
			row = append(row, formatTopContributions(&a))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeScoreFooter prints the timing summary line.
func writeScoreFooter(writer io.Writer, duration time.Duration, cfg *contract.Config) error {
	_, err := fmt.Fprintf(writer, "Scoring completed in %v. Mapping backend: %s\n", duration, cfg.MappingBackend)
	return err
}

// contribution holds a key-value pair from the Contributions map.
type contribution struct {
	Name  string
	Value float64
}

// formatTopContributions computes the top metric components behind one
// alignment score.
func formatTopContributions(a *schema.AlignmentResult) string {
	var contribs []contribution
	for k, v := range a.Contributions {
		if v > 0 {
			contribs = append(contribs, contribution{Name: string(k), Value: v})
		}
	}
	if len(contribs) == 0 {
		return "Not applicable"
	}

	sort.Slice(contribs, func(i, j int) bool {
		if contribs[i].Value != contribs[j].Value {
			return math.Abs(contribs[i].Value) > math.Abs(contribs[j].Value)
		}
		return contribs[i].Name < contribs[j].Name
	})

	var parts []string
	limit := min(len(contribs), topNContributions)
	for i := range limit {
		parts = append(parts, contribs[i].Name)
	}
	return strings.Join(parts, " > ")
}

// sortedScoreDimensions returns dimension keys in sorted order for stable output.
func sortedScoreDimensions(dims map[schema.Dimension]schema.DimensionScore) []schema.Dimension {
	out := make([]schema.Dimension, 0, len(dims))
	for d := range dims {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// sortedMetricInputs returns metric keys in sorted order for stable output.
func sortedMetricInputs(metrics map[schema.MetricKey]schema.MetricInput) []schema.MetricKey {
	out := make([]schema.MetricKey, 0, len(metrics))
	for m := range metrics {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
