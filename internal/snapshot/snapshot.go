// Package snapshot dumps the store to JSON Lines files, one file per table,
// for backups and hand-off to other tools. Each file is written atomically
// with the temp-file, fsync, rename pattern.
package snapshot

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// File names inside a snapshot directory.
const (
	PropertiesFile   = "properties.jsonl"
	LeadsFile        = "leads.jsonl"
	AppointmentsFile = "appointments.jsonl"
	WorkflowsFile    = "workflows.jsonl"
	ActivitiesFile   = "activities.jsonl"
)

// Counts reports how many records each file holds.
type Counts struct {
	Properties   int `json:"properties"`
	Leads        int `json:"leads"`
	Appointments int `json:"appointments"`
	Workflows    int `json:"workflows"`
	Activities   int `json:"activities"`
}

// Export writes every table of s into dir, creating dir if needed.
// Activities are written newest first, the order the log lists them.
func Export(ctx context.Context, s types.Store, dir string) (Counts, error) {
	var c Counts
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return c, fmt.Errorf("creating snapshot directory: %w", err)
	}

	properties, err := s.Properties().List(ctx)
	if err != nil {
		return c, err
	}
	if c.Properties, err = write(filepath.Join(dir, PropertiesFile), properties); err != nil {
		return c, err
	}

	leads, err := s.Leads().List(ctx)
	if err != nil {
		return c, err
	}
	if c.Leads, err = write(filepath.Join(dir, LeadsFile), leads); err != nil {
		return c, err
	}

	appointments, err := s.Appointments().List(ctx)
	if err != nil {
		return c, err
	}
	if c.Appointments, err = write(filepath.Join(dir, AppointmentsFile), appointments); err != nil {
		return c, err
	}

	workflows, err := s.Workflows().List(ctx)
	if err != nil {
		return c, err
	}
	if c.Workflows, err = write(filepath.Join(dir, WorkflowsFile), workflows); err != nil {
		return c, err
	}

	activities, err := s.Activities().List(ctx, 0)
	if err != nil {
		return c, err
	}
	if c.Activities, err = write(filepath.Join(dir, ActivitiesFile), activities); err != nil {
		return c, err
	}
	return c, nil
}

// Load reads a JSONL file into records. Blank and malformed lines are
// skipped.
func Load[E any](path string) ([]E, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records := []E{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e E
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		records = append(records, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// write encodes records one per line into path atomically.
func write[E any](path string, records []E) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) (int, error) {
		tmp.Close()
		os.Remove(tmpName)
		return 0, err
	}

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, rec := range records {
		// Encode appends the newline.
		if err := enc.Encode(rec); err != nil {
			return fail(fmt.Errorf("writing record: %w", err))
		}
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return len(records), nil
}
