package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Report is the outcome of one check run.
type Report struct {
	Classes    []Finding `json:"classes" yaml:"classes"`
	Violations int       `json:"violations" yaml:"violations"`
}

func newReport(findings []Finding) Report {
	r := Report{Classes: findings}
	if r.Classes == nil {
		r.Classes = []Finding{}
	}
	for _, f := range findings {
		if !f.OK() {
			r.Violations++
		}
	}
	return r
}

// render formats the report as text, json or yaml.
func (r Report) render(format string) ([]byte, error) {
	switch format {
	case "json":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "yaml":
		return yaml.Marshal(r)
	case "text", "":
		return r.renderText(), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func (r Report) renderText() []byte {
	var b strings.Builder
	for _, f := range r.Classes {
		if f.OK() {
			fmt.Fprintf(&b, "ok   %s (%s) %s\n", f.Class, f.Trigger, f.Pos)
			continue
		}
		fmt.Fprintf(&b, "FAIL %s %s\n     %s\n", f.Class, f.Pos, f.Error)
	}
	fmt.Fprintf(&b, "%d classes checked, %d violations\n", len(r.Classes), r.Violations)
	return []byte(b.String())
}

// tempFile abstracts an os.File for testability.
type tempFile interface {
	Name() string
	Write([]byte) (int, error)
	Close() error
}

// File operation hooks, overridden in tests.
var (
	createTempFile = func(dir, pattern string) (tempFile, error) { return os.CreateTemp(dir, pattern) }
	chmodFile      = os.Chmod
	renameFile     = os.Rename
	removeFile     = os.Remove
)

// writeFileAtomic writes a file atomically.
//
// It writes to a temporary file in the same directory and then renames it
// over the target path, ensuring readers never observe partial writes.
func writeFileAtomic(targetPath string, data []byte, perm os.FileMode) (err error) {
	targetDir := filepath.Dir(targetPath)

	tmpFile, err := createTempFile(targetDir, filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			_ = removeFile(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}
	if err = chmodFile(tmpPath, perm); err != nil {
		return err
	}
	return renameFile(tmpPath, targetPath)
}
