package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BartekS5/churnflow/pkg/dataset"
	"github.com/BartekS5/churnflow/pkg/logger"
	"github.com/BartekS5/churnflow/pkg/models"
)

// File patterns the source adapters write and the merger discovers.
const (
	StaticFilePattern = "*static_data.csv"
	LiveFilePattern   = "*live_data.csv"
)

// MasterState is the explicit lifecycle state of the master dataset. The
// two states select distinct merge algorithms.
type MasterState int

const (
	MasterAbsent MasterState = iota
	MasterPresent
)

// Merger owns read-modify-write access to the master dataset for the
// duration of one run. Validation failures are expected outcomes handled
// locally: the report is persisted, the master is left untouched and Run
// returns nil. Discovery and I/O failures propagate as errors.
//
// Single-writer assumption: exactly one pipeline run is active at a time.
// No file locking is taken.
type Merger struct {
	StaticDir  string
	LiveDir    string
	MasterPath string
	ReportDir  string

	Validator *Validator
	Versions  VersionLogger

	// Now is the clock used for report filenames; tests inject their own.
	Now func() time.Time
}

func NewMerger(staticDir, liveDir, masterPath, reportDir string, v *Validator, versions VersionLogger) *Merger {
	return &Merger{
		StaticDir:  staticDir,
		LiveDir:    liveDir,
		MasterPath: masterPath,
		ReportDir:  reportDir,
		Validator:  v,
		Versions:   versions,
		Now:        time.Now,
	}
}

// State probes the master dataset lifecycle state once, up front.
func (m *Merger) State() MasterState {
	if _, err := os.Stat(m.MasterPath); err != nil {
		return MasterAbsent
	}
	return MasterPresent
}

// Run executes the merge algorithm for the current master state.
func (m *Merger) Run(ctx context.Context) error {
	switch m.State() {
	case MasterAbsent:
		return m.createMaster(ctx)
	default:
		return m.updateMaster(ctx)
	}
}

// createMaster establishes a fresh master from the newest static and live
// batches, gated on an all-pass combined validation.
func (m *Merger) createMaster(ctx context.Context) error {
	logger.Infof("[VALIDATION] Master raw data not found. Creating fresh master raw data...")

	staticFile, err := latestFile(m.StaticDir, StaticFilePattern)
	if err != nil {
		return err
	}
	logger.Infof("[VALIDATION] Using latest static data: %s", staticFile)
	staticBatch, err := dataset.ReadCSV(staticFile)
	if err != nil {
		return err
	}

	liveFile, err := latestFile(m.LiveDir, LiveFilePattern)
	if err != nil {
		return err
	}
	logger.Infof("[VALIDATION] Using latest live data: %s", liveFile)
	liveBatch, err := dataset.ReadCSV(liveFile)
	if err != nil {
		return err
	}

	combined := dataset.Concat(staticBatch, liveBatch)
	report := m.Validator.Validate(combined)

	reportPath, err := writeReport(m.ReportDir, "combined", m.Now(), report)
	if err != nil {
		return err
	}
	logger.Infof("[VALIDATION] Report saved at: %s", reportPath)

	if !report.AllPass() {
		logger.Errorf("[VALIDATION] Validation failed. Master not created.")
		return nil
	}

	if err := combined.WriteCSV(m.MasterPath); err != nil {
		return err
	}
	logger.Infof("[VALIDATION] Master dataset saved at: %s", m.MasterPath)

	return m.Versions.Append(models.VersionEntry{
		Dataset:   filepath.Base(m.MasterPath),
		Path:      m.MasterPath,
		Rows:      combined.NumRows(),
		Source:    "static data, live data",
		Changelog: "Created master data with static + live",
	})
}

// updateMaster appends the newest live batch to the existing master. The
// live batch is validated alone first; on failure the combined validation
// is never attempted, keeping the failure report scoped to the live batch.
func (m *Merger) updateMaster(ctx context.Context) error {
	logger.Infof("[VALIDATION] Master data found. Appending new live data...")

	master, err := dataset.ReadCSV(m.MasterPath)
	if err != nil {
		return err
	}

	liveFile, err := latestFile(m.LiveDir, LiveFilePattern)
	if err != nil {
		return err
	}
	logger.Infof("[VALIDATION] Using latest live data: %s", liveFile)
	liveBatch, err := dataset.ReadCSV(liveFile)
	if err != nil {
		return err
	}

	liveReport := m.Validator.Validate(liveBatch)
	reportPath, err := writeReport(m.ReportDir, "live", m.Now(), liveReport)
	if err != nil {
		return err
	}
	logger.Infof("[VALIDATION] Live data report saved at: %s", reportPath)

	if !liveReport.AllPass() {
		logger.Errorf("[VALIDATION] Live data validation failed. Skipping update.")
		return nil
	}

	candidate := dataset.Concat(master, liveBatch)
	combinedReport := m.Validator.Validate(candidate)
	reportPath, err = writeReport(m.ReportDir, "combined", m.Now(), combinedReport)
	if err != nil {
		return err
	}
	logger.Infof("[VALIDATION] Updated master validation report saved at: %s", reportPath)

	if !combinedReport.AllPass() {
		logger.Errorf("[VALIDATION] Combined data invalid. Master not updated.")
		return nil
	}

	if err := candidate.WriteCSV(m.MasterPath); err != nil {
		return err
	}
	logger.Infof("[VALIDATION] Master dataset updated. Rows: %d", candidate.NumRows())

	return m.Versions.Append(models.VersionEntry{
		Dataset:   filepath.Base(m.MasterPath),
		Path:      m.MasterPath,
		Rows:      candidate.NumRows(),
		Source:    "static data, live data",
		Changelog: "Updated master with new live data",
	})
}

// latestFile returns the newest file (by modification time) in dir matching
// pattern, failing loudly when nothing matches.
func latestFile(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no files found in %s matching %s", dir, pattern)
	}

	newest := matches[0]
	var newestMod time.Time
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return "", err
		}
		if info.ModTime().After(newestMod) {
			newest = match
			newestMod = info.ModTime()
		}
	}
	return newest, nil
}
