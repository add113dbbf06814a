// Package formatter renders mining results for terminal and file output.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/colocation-mining/pkg/model"
	"github.com/colocation-mining/pkg/utils"
)

// TableFormatter renders the prevalent-pattern table as aligned text.
type TableFormatter struct {
	// Precision is the number of PI decimal places.
	Precision int
}

// NewTableFormatter creates a formatter with default precision.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{Precision: 6}
}

// Format renders the result table as a string. Patterns appear in the
// result's canonical order (size ascending, then lexicographic).
func (f *TableFormatter) Format(result *model.MiningResult) string {
	var sb strings.Builder

	width := len("Pattern")
	for _, pp := range result.Patterns {
		if l := len(pp.Pattern.String()); l > width {
			width = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %s\n", width, "Pattern", "PI"))
	for _, pp := range result.Patterns {
		sb.WriteString(fmt.Sprintf("%-*s  %.*f\n", width, pp.Pattern.String(), f.Precision, pp.PI))
	}
	return sb.String()
}

// Write renders the result table to the writer.
func (f *TableFormatter) Write(w io.Writer, result *model.MiningResult) error {
	_, err := io.WriteString(w, f.Format(result))
	return err
}

// LogSummary logs the run statistics and the pattern count.
func (f *TableFormatter) LogSummary(log utils.Logger, result *model.MiningResult) {
	stats := result.Stats
	log.Info("Instances:      %d (%d feature types)", stats.InstanceCount, stats.FeatureCount)
	log.Info("Neighbor pairs: %d", stats.NeighborEdges)
	log.Info("Cliques:        %d", stats.CliqueCount)
	log.Info("Candidates:     %d", stats.CandidateCount)
	log.Info("Prevalent:      %d", stats.PrevalentCount)
	log.Info("Elapsed:        %v", stats.Elapsed)
}
