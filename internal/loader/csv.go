// Package loader implements CSV ingestion of spatial feature instances.
//
// The expected record layout is a header row naming the columns Feature,
// Instance, LocX and LocY, followed by one row per instance. Instance IDs
// are generated as FeatureType + instance number ("A1", "B2").
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/colocation-mining/pkg/errors"
	"github.com/colocation-mining/pkg/model"
)

// Options holds configuration options for the loader.
type Options struct {
	// StrictMode fails the whole load on any malformed row. When false,
	// malformed rows are skipped.
	StrictMode bool

	// MaxRecords limits the number of records to load; zero means no limit.
	MaxRecords int
}

// DefaultOptions returns default loader options.
func DefaultOptions() *Options {
	return &Options{StrictMode: true}
}

// Loader reads spatial instances from CSV data.
type Loader struct {
	opts *Options
}

// NewLoader creates a new Loader.
func NewLoader(opts *Options) *Loader {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Loader{opts: opts}
}

// LoadFile loads instances from a CSV file.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]model.Instance, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidInput, fmt.Sprintf("cannot open dataset %s", path), err)
	}
	defer file.Close()

	return l.Load(ctx, file)
}

// Load loads instances from the reader. The first row must be the header;
// column order is free as long as the four required columns are present.
func (l *Loader) Load(ctx context.Context, reader io.Reader) ([]model.Instance, error) {
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil // empty input is legal
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeParseError, "cannot read CSV header", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var instances []model.Instance
	line := 1
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			if l.opts.StrictMode {
				return nil, errors.Wrap(errors.CodeParseError, fmt.Sprintf("line %d", line), err)
			}
			continue
		}

		inst, err := parseRecord(record, cols)
		if err != nil {
			if l.opts.StrictMode {
				return nil, errors.Wrap(errors.CodeParseError, fmt.Sprintf("line %d", line), err)
			}
			continue
		}
		instances = append(instances, inst)

		if l.opts.MaxRecords > 0 && len(instances) >= l.opts.MaxRecords {
			break
		}
	}

	return instances, nil
}

// columnMap holds the index of each required column in the header.
type columnMap struct {
	feature  int
	instance int
	locX     int
	locY     int
}

func mapColumns(header []string) (*columnMap, error) {
	cols := &columnMap{feature: -1, instance: -1, locX: -1, locY: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Feature":
			cols.feature = i
		case "Instance":
			cols.instance = i
		case "LocX":
			cols.locX = i
		case "LocY":
			cols.locY = i
		}
	}
	if cols.feature < 0 || cols.instance < 0 || cols.locX < 0 || cols.locY < 0 {
		return nil, errors.New(errors.CodeParseError,
			"header must contain Feature, Instance, LocX and LocY columns")
	}
	return cols, nil
}

func parseRecord(record []string, cols *columnMap) (model.Instance, error) {
	var inst model.Instance

	maxIdx := cols.feature
	for _, c := range []int{cols.instance, cols.locX, cols.locY} {
		if c > maxIdx {
			maxIdx = c
		}
	}
	if len(record) <= maxIdx {
		return inst, fmt.Errorf("record has %d fields, want at least %d", len(record), maxIdx+1)
	}

	feature := strings.TrimSpace(record[cols.feature])
	if feature == "" {
		return inst, fmt.Errorf("empty feature type")
	}

	num, err := strconv.Atoi(strings.TrimSpace(record[cols.instance]))
	if err != nil {
		return inst, fmt.Errorf("invalid instance number: %w", err)
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(record[cols.locX]), 64)
	if err != nil {
		return inst, fmt.Errorf("invalid LocX: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(record[cols.locY]), 64)
	if err != nil {
		return inst, fmt.Errorf("invalid LocY: %w", err)
	}

	inst = model.Instance{
		Type: feature,
		ID:   feature + strconv.Itoa(num),
		X:    x,
		Y:    y,
	}
	return inst, nil
}
