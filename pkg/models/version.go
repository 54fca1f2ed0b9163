package models

import "time"

// VersionEntry is one audit record describing a dataset write.
type VersionEntry struct {
	LoggedAt  time.Time
	RunID     string
	Dataset   string
	Path      string
	Rows      int
	Source    string
	Changelog string
}
