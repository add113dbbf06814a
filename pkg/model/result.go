package model

import "time"

// MiningRequest carries the parameters of one mining run from the driver
// into the pipeline.
type MiningRequest struct {
	RunUUID          string  `json:"run_uuid"`
	DatasetPath      string  `json:"dataset_path"`
	NeighborDistance float64 `json:"neighbor_distance"`
	MinPrevalence    float64 `json:"min_prevalence"`
	// MinCondProb is parsed and validated but unused by the pipeline;
	// reserved for a rule-generation stage.
	MinCondProb float64 `json:"min_cond_prob"`
	Debug       bool    `json:"debug"`
}

// PrevalentPattern is one row of the mining output: a pattern together
// with its participation index.
type PrevalentPattern struct {
	Pattern Pattern `json:"pattern"`
	PI      float64 `json:"pi"`
}

// StageStats holds per-stage counters of one pipeline run.
type StageStats struct {
	InstanceCount  int `json:"instance_count"`
	FeatureCount   int `json:"feature_count"`
	NeighborEdges  int `json:"neighbor_edges"`
	CliqueCount    int `json:"clique_count"`
	CandidateCount int `json:"candidate_count"`
	PrevalentCount int `json:"prevalent_count"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// MiningResult is the output of one full pipeline run. Patterns are ordered
// by size ascending, then lexicographically, so the table prints smallest
// patterns first and byte-identically across runs on the same input.
type MiningResult struct {
	RunUUID   string             `json:"run_uuid"`
	Patterns  []PrevalentPattern `json:"patterns"`
	Stats     StageStats         `json:"stats"`
	CreatedAt time.Time          `json:"created_at"`
}

// Lookup returns the PI recorded for the pattern and whether it is present.
func (r *MiningResult) Lookup(p Pattern) (float64, bool) {
	key := p.Key()
	for i := range r.Patterns {
		if r.Patterns[i].Pattern.Key() == key {
			return r.Patterns[i].PI, true
		}
	}
	return 0, false
}
