package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/bcat/internal/contract"
	"github.com/huangsam/bcat/schema"
)

// WriteBestMatches outputs a ranked alignment leaderboard, dispatching based
// on the output format configured.
func WriteBestMatches(alignments []schema.AlignmentResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	limit := min(len(alignments), cfg.ResultLimit)
	shown := alignments[:limit]

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			type JSONAlignment struct {
				Rank  int    `json:"rank"`
				Label string `json:"label"`
				schema.AlignmentResult
			}
			output := make([]JSONAlignment, len(shown))
			for i, a := range shown {
				output[i] = JSONAlignment{
					Rank:            i + 1,
					Label:           contract.GetPlainLabel(a.Score),
					AlignmentResult: a,
				}
			}
			return writeJSON(w, output)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"rank", "pattern_id", "pattern_name", "score", "label", "matched"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for i, a := range shown {
					rec := []string{
						strconv.Itoa(i + 1),
						strconv.Itoa(a.Pattern.ID),
						a.Pattern.Name,
						fmtFloat(a.Score),
						contract.GetPlainLabel(a.Score),
						strconv.Itoa(a.Matched),
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
			if err := writeLeaderboardTable(alignments, cfg, fmtFloat, w); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Ranked %d patterns in %v\n", len(alignments), duration)
			return err
		}, "Wrote table")
	}
}
