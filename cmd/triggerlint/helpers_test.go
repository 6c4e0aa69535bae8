package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

// appSource declares three classes: two valid, one with extra public methods.
// Logger is never declared and must not be reported.
const appSource = `package app

import "github.com/sghaida/usecase/di"

type Logger struct{}

func (l *Logger) Log(msg string) {}

type CreateTask struct {
	*Logger
	name string
}

func (c *CreateTask) Execute() {}

func (c *CreateTask) prepare() {}

type Greet struct{}

func (Greet) Call() string { return "hi" }

type Broken struct{}

func (b *Broken) Execute() {}
func (b *Broken) Zeta()    {}
func (b *Broken) Alpha()   {}

var (
	_ = di.MustDeclare[CreateTask](nil, di.MustManifest())
	_ = di.MustDeclare[Greet](nil, di.MustManifest())
	_ = di.MustDeclare[Broken](nil, di.MustManifest())
)
`

// cleanSource has a single valid class.
const cleanSource = `package clean

import "github.com/sghaida/usecase/di"

type Ping struct{}

func (p *Ping) Execute() {}

var _ = di.MustDeclare[Ping](nil, di.MustManifest())
`

// triggerSource covers the missing and duplicate trigger violations.
const triggerSource = `package jobs

import "github.com/sghaida/usecase/di"

type NoTrigger struct{}

func (n *NoTrigger) Run() {}

type Both struct{}

func (b *Both) Execute() {}
func (b *Both) Call()    {}

func init() {
	_, _ = di.Declare[NoTrigger](nil, di.MustManifest())
	_, _ = di.Declare[Both](nil, di.MustManifest())
}
`

// Classes declared from a separate wiring package.
const (
	useCasesSource = `package usecases

type Bad struct{}

func (b *Bad) Helper() {}

type Good struct{}

func (g *Good) Execute() {}

type Unused struct{}
`

	nightlySource = `package jobs

type Nightly struct{}

func (n Nightly) Call() {}
`

	wiringSource = `package wiring

import (
	"github.com/sghaida/usecase/di"

	j "example.com/app/jobs/v2"
	"example.com/app/usecases"
)

var (
	_ = di.MustDeclare[usecases.Bad](nil, di.MustManifest())
	_ = di.MustDeclare[usecases.Good](nil, di.MustManifest())
	_ = di.MustDeclare[j.Nightly](nil, di.MustManifest())
)
`
)

// writeWiringTree lays out usecases, jobs/v2 and wiring packages under a new
// temp dir and returns its path.
func writeWiringTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeGoFile(t, filepath.Join(root, "usecases"), "u.go", useCasesSource)
	writeGoFile(t, filepath.Join(root, "jobs", "v2"), "j.go", nightlySource)
	writeGoFile(t, filepath.Join(root, "wiring"), "w.go", wiringSource)
	return root
}

//
// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// writeGoFile writes content to dir/name, creating dir as needed.
func writeGoFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// testScanner returns a scanner with cfg and a logger into the returned buffer.
func testScanner(cfg Config) (*scanner, *bytes.Buffer) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	return newScanner(cfg, log), &buf
}

// runCLI runs the command line and captures both streams.
func runCLI(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func classNames(findings []Finding) []string {
	names := make([]string, 0, len(findings))
	for _, f := range findings {
		names = append(names, f.Class)
	}
	return names
}
