// Package project persists the per-project configuration documents: column
// mapping, vocabulary dictionary, segmentation rules and the processed-file
// log. Documents are JSON files under <root>/<project>/, byte-compatible with
// the legacy layout (config.json, diccionario.json, segmentacion.json,
// processed_files.json) so existing project directories keep working.
//
// The store assumes a single writer per project. Concurrent pipeline runs
// against the same project are undefined behavior; callers must serialize.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cognicore/aduana/pkg/aduana/colmap"
	"github.com/cognicore/aduana/pkg/aduana/internalerr"
	"github.com/cognicore/aduana/pkg/aduana/segment"
	"github.com/cognicore/aduana/pkg/aduana/vocab"
)

const (
	mappingFile   = "config.json"
	dictFile      = "diccionario.json"
	rulesFile     = "segmentacion.json"
	processedFile = "processed_files.json"
	dataDir       = "data"
)

// Store reads and writes project-scoped documents under a root directory.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// DataDir returns the directory holding a project's uploaded spreadsheets.
func (s *Store) DataDir(project string) string {
	return filepath.Join(s.root, project, dataDir)
}

func (s *Store) path(project, file string) string {
	return filepath.Join(s.root, project, file)
}

// mappingDoc wraps the mapping the way the legacy config.json nests it.
type mappingDoc struct {
	MapeoColumnas colmap.Mapping `json:"mapeo_columnas"`
}

// LoadMapping reads a project's column mapping. A missing or undecodable
// document is a configuration error: the pipeline cannot guess roles.
func (s *Store) LoadMapping(project string) (colmap.Mapping, error) {
	data, err := os.ReadFile(s.path(project, mappingFile))
	if err != nil {
		return colmap.Mapping{}, fmt.Errorf("%w: project %s has no %s", internalerr.ErrInvalidConfig, project, mappingFile)
	}
	var doc mappingDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return colmap.Mapping{}, fmt.Errorf("%w: decode %s: %v", internalerr.ErrInvalidConfig, mappingFile, err)
	}
	return doc.MapeoColumnas, nil
}

// SaveMapping writes a project's column mapping.
func (s *Store) SaveMapping(project string, m colmap.Mapping) error {
	return s.writeJSON(project, mappingFile, mappingDoc{MapeoColumnas: m})
}

// LoadDictionary reads the vocabulary dictionary; missing or corrupt files
// yield an empty dictionary, never an error.
func (s *Store) LoadDictionary(project string) *vocab.Dictionary {
	d := vocab.New()
	data, err := os.ReadFile(s.path(project, dictFile))
	if err != nil {
		return d
	}
	if err := json.Unmarshal(data, d); err != nil {
		return vocab.New()
	}
	return d
}

// SaveDictionary writes the vocabulary dictionary.
func (s *Store) SaveDictionary(project string, d *vocab.Dictionary) error {
	return s.writeJSON(project, dictFile, d)
}

// LoadRules reads the segmentation rule set; missing or corrupt files yield
// an empty set. The current document form is an ordered array (rule order is
// a precedence contract); the legacy object form is still accepted and
// ordered by sorted label, which is what its sorted-key writer produced.
func (s *Store) LoadRules(project string) *segment.RuleSet {
	data, err := os.ReadFile(s.path(project, rulesFile))
	if err != nil {
		return segment.New(nil)
	}

	var ordered []segment.Rule
	if err := json.Unmarshal(data, &ordered); err == nil {
		return segment.New(ordered)
	}

	var legacy map[string][]string
	if err := json.Unmarshal(data, &legacy); err != nil {
		return segment.New(nil)
	}
	labels := make([]string, 0, len(legacy))
	for label := range legacy {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	rules := make([]segment.Rule, 0, len(labels))
	for _, label := range labels {
		rules = append(rules, segment.Rule{Label: label, Keywords: legacy[label]})
	}
	return segment.New(rules)
}

// SaveRules writes the segmentation rule set in the ordered array form.
func (s *Store) SaveRules(project string, rs *segment.RuleSet) error {
	return s.writeJSON(project, rulesFile, rs.Rules())
}

// FileStamp records the size a file had when it was processed.
type FileStamp struct {
	Size int64 `json:"size"`
}

// ProcessedLog tracks uploaded files by name and size so duplicate uploads
// can be flagged before a run.
type ProcessedLog map[string]FileStamp

// Seen reports whether a file with this name and size was already processed.
func (l ProcessedLog) Seen(name string, size int64) bool {
	stamp, ok := l[name]
	return ok && stamp.Size == size
}

// Record adds or updates a file's entry.
func (l ProcessedLog) Record(name string, size int64) {
	l[name] = FileStamp{Size: size}
}

// LoadProcessedLog reads the processed-file log; missing or corrupt files
// yield an empty log.
func (s *Store) LoadProcessedLog(project string) ProcessedLog {
	log := make(ProcessedLog)
	data, err := os.ReadFile(s.path(project, processedFile))
	if err != nil {
		return log
	}
	if err := json.Unmarshal(data, &log); err != nil {
		return make(ProcessedLog)
	}
	return log
}

// SaveProcessedLog writes the processed-file log.
func (s *Store) SaveProcessedLog(project string, log ProcessedLog) error {
	return s.writeJSON(project, processedFile, log)
}

// writeJSON writes a document atomically: temp file in the project directory,
// then rename. A reader never observes a half-written document.
func (s *Store) writeJSON(project, file string, v any) error {
	dir := filepath.Join(s.root, project)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, file+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, file))
}

// Exists reports whether a project directory is present.
func (s *Store) Exists(project string) bool {
	info, err := os.Stat(filepath.Join(s.root, project))
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	return err == nil && info.IsDir()
}
