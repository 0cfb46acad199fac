// Package parquet exports scoring results to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/bcat/schema"
	"github.com/parquet-go/parquet-go"
)

// ScoreRecord represents one scored conversation in a Parquet export.
// Dimension scores are flattened into fixed columns so downstream SQL
// engines can query them without unnesting.
type ScoreRecord struct {
	// ConversationID identifies the scored conversation (nullable, the
	// upstream integration does not always supply one)
	ConversationID *string `parquet:"conversation_id,optional,snappy"`

	// PatternID is the stable identifier of the chosen pattern
	PatternID int32 `parquet:"pattern_id,snappy"`

	// PatternName is the human-readable label of the chosen pattern
	PatternName string `parquet:"pattern_name,snappy"`

	// SelectionMethod records how the pattern was chosen (explicit, mapped, auto_best)
	SelectionMethod string `parquet:"selection_method,snappy"`

	// AggregateScore is the final 0-1 score
	AggregateScore float64 `parquet:"aggregate_score,snappy"`

	// ScorePrecision is the precision dimension sub-score
	ScorePrecision float64 `parquet:"score_precision,snappy"`

	// ScoreResolve is the resolve dimension sub-score
	ScoreResolve float64 `parquet:"score_resolve,snappy"`

	// ScoreInnovation is the innovation dimension sub-score
	ScoreInnovation float64 `parquet:"score_innovation,snappy"`

	// ScoreHarmony is the harmony dimension sub-score
	ScoreHarmony float64 `parquet:"score_harmony,snappy"`

	// MissingMetrics is true when no input feature overlapped the profile
	MissingMetrics bool `parquet:"missing_metrics,snappy"`

	// ScoredAt is when the score was produced (stored as TIMESTAMP with nanosecond precision)
	ScoredAt time.Time `parquet:"scored_at,snappy"`
}

// ConvertScore flattens a structured score into an export record.
func ConvertScore(score *schema.BCATScore, scoredAt time.Time) ScoreRecord {
	rec := ScoreRecord{
		PatternID:       int32(score.Pattern.ID),
		PatternName:     score.Pattern.Name,
		SelectionMethod: string(score.SelectionMethod),
		AggregateScore:  score.AggregateScore,
		MissingMetrics:  score.MissingMetrics,
		ScoredAt:        scoredAt,
	}
	if score.ConversationID != "" {
		id := score.ConversationID
		rec.ConversationID = &id
	}
	if d, ok := score.Dimensions[schema.DimPrecision]; ok {
		rec.ScorePrecision = d.Score
	}
	if d, ok := score.Dimensions[schema.DimResolve]; ok {
		rec.ScoreResolve = d.Score
	}
	if d, ok := score.Dimensions[schema.DimInnovation]; ok {
		rec.ScoreInnovation = d.Score
	}
	if d, ok := score.Dimensions[schema.DimHarmony]; ok {
		rec.ScoreHarmony = d.Score
	}
	return rec
}

// WriteScoreRecordsParquet writes a slice of ScoreRecord structs to a Parquet file.
func WriteScoreRecordsParquet(data []ScoreRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the ScoreRecord struct tags
	writer := parquet.NewGenericWriter[ScoreRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
