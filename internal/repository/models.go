// Package repository provides database persistence for mining runs.
package repository

import (
	"time"

	"github.com/colocation-mining/pkg/model"
)

// MiningRun represents the mining_runs table: one row per completed
// pipeline execution.
type MiningRun struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RunUUID          string    `gorm:"column:run_uuid;type:varchar(64);uniqueIndex"`
	DatasetPath      string    `gorm:"column:dataset_path;type:varchar(512)"`
	NeighborDistance float64   `gorm:"column:neighbor_distance"`
	MinPrevalence    float64   `gorm:"column:min_prevalence"`
	InstanceCount    int       `gorm:"column:instance_count"`
	FeatureCount     int       `gorm:"column:feature_count"`
	NeighborEdges    int       `gorm:"column:neighbor_edges"`
	CliqueCount      int       `gorm:"column:clique_count"`
	CandidateCount   int       `gorm:"column:candidate_count"`
	PatternCount     int       `gorm:"column:pattern_count"`
	ElapsedMs        int64     `gorm:"column:elapsed_ms"`
	CreateTime       time.Time `gorm:"column:create_time;autoCreateTime"`
}

// TableName returns the table name for MiningRun.
func (MiningRun) TableName() string {
	return "mining_runs"
}

// PatternRow represents the prevalent_patterns table: one row per
// prevalent pattern of a run.
type PatternRow struct {
	ID      int64   `gorm:"column:id;primaryKey;autoIncrement"`
	RunUUID string  `gorm:"column:run_uuid;type:varchar(64);index"`
	Pattern string  `gorm:"column:pattern;type:varchar(512)"`
	Size    int     `gorm:"column:size"`
	PI      float64 `gorm:"column:pi"`
}

// TableName returns the table name for PatternRow.
func (PatternRow) TableName() string {
	return "prevalent_patterns"
}

// ToModel converts PatternRow back into a PrevalentPattern.
func (r *PatternRow) ToModel() model.PrevalentPattern {
	return model.PrevalentPattern{
		Pattern: model.PatternFromKey(r.Pattern),
		PI:      r.PI,
	}
}

// NewRunRecord builds the MiningRun row for a finished result.
func NewRunRecord(req *model.MiningRequest, result *model.MiningResult) *MiningRun {
	return &MiningRun{
		RunUUID:          result.RunUUID,
		DatasetPath:      req.DatasetPath,
		NeighborDistance: req.NeighborDistance,
		MinPrevalence:    req.MinPrevalence,
		InstanceCount:    result.Stats.InstanceCount,
		FeatureCount:     result.Stats.FeatureCount,
		NeighborEdges:    result.Stats.NeighborEdges,
		CliqueCount:      result.Stats.CliqueCount,
		CandidateCount:   result.Stats.CandidateCount,
		PatternCount:     result.Stats.PrevalentCount,
		ElapsedMs:        result.Stats.Elapsed.Milliseconds(),
	}
}

// NewPatternRows builds the PatternRow rows for a finished result.
func NewPatternRows(result *model.MiningResult) []PatternRow {
	rows := make([]PatternRow, 0, len(result.Patterns))
	for _, pp := range result.Patterns {
		rows = append(rows, PatternRow{
			RunUUID: result.RunUUID,
			Pattern: pp.Pattern.Key(),
			Size:    len(pp.Pattern),
			PI:      pp.PI,
		})
	}
	return rows
}
