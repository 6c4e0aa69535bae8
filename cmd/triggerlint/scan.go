package main

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/sghaida/usecase/di"
)

// declareFuncs are the di functions whose type argument marks a class.
var declareFuncs = map[string]bool{
	"Declare":     true,
	"MustDeclare": true,
}

// Finding is the contract result for one class.
type Finding struct {
	Class   string   `json:"class" yaml:"class"`
	Pos     string   `json:"pos" yaml:"pos"`
	Methods []string `json:"methods" yaml:"methods"`
	Trigger string   `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	Kind    string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the class passed.
func (f Finding) OK() bool { return f.Error == "" }

// pkgScan accumulates what one package in one directory declares.
type pkgScan struct {
	name    string
	types   []*ast.TypeSpec
	methods map[string][]string
	// declared holds unqualified Declare type arguments seen in this package.
	declared map[string]bool
}

type scanner struct {
	cfg  Config
	log  zerolog.Logger
	fset *token.FileSet
	// declared holds "pkg.Type" for package-qualified Declare type
	// arguments seen anywhere in the scan.
	declared map[string]bool
}

func newScanner(cfg Config, log zerolog.Logger) *scanner {
	return &scanner{cfg: cfg, log: log, fset: token.NewFileSet(), declared: make(map[string]bool)}
}

// expand turns command-line patterns into directories. A trailing "/..."
// walks the tree below it, honoring the .gitignore found at its root.
func (s *scanner) expand(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	var dirs []string
	seen := make(map[string]bool)
	add := func(d string) {
		d = filepath.Clean(d)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}

	for _, p := range patterns {
		root, recursive := strings.CutSuffix(filepath.ToSlash(p), "/...")
		if root == "..." {
			root, recursive = ".", true
		}
		if root == "" {
			root = "."
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", root)
		}
		if !recursive {
			add(root)
			continue
		}

		gitIgnore := loadGitignore(root)
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && s.skip(root, path, d.Name(), gitIgnore) {
				s.log.Debug().Str("dir", path).Msg("skipping directory")
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return dirs, nil
}

func (s *scanner) skip(root, path, base string, gitIgnore *ignore.GitIgnore) bool {
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || s.cfg.skipDir(base) {
		return true
	}
	if gitIgnore == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return gitIgnore.MatchesPath(rel) || gitIgnore.MatchesPath(rel+"/")
}

// loadGitignore compiles root/.gitignore, or returns nil if there is none.
func loadGitignore(root string) *ignore.GitIgnore {
	content, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return ignore.CompileIgnoreLines(strings.Split(string(content), "\n")...)
}

// scan parses every directory first and only then checks candidates, so a
// class declared from a wiring package elsewhere in the tree is still found.
func (s *scanner) scan(dirs []string) ([]Finding, error) {
	var pkgs []*pkgScan
	for _, dir := range dirs {
		found, err := s.parseDir(dir)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, found...)
	}

	var findings []Finding
	for _, ps := range pkgs {
		findings = append(findings, s.check(ps)...)
	}
	return findings, nil
}

// scanDir checks a single directory.
func (s *scanner) scanDir(dir string) ([]Finding, error) {
	return s.scan([]string{dir})
}

// parseDir parses the Go files of dir, one pkgScan per package name.
func (s *scanner) parseDir(dir string) ([]*pkgScan, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	pkgs := make(map[string]*pkgScan)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fileName := entry.Name()
		if !strings.HasSuffix(fileName, ".go") {
			continue
		}
		if strings.HasSuffix(fileName, "_test.go") && !s.cfg.IncludeTests {
			continue
		}

		filePath := filepath.Join(dir, fileName)
		file, err := parser.ParseFile(s.fset, filePath, nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
		}

		ps, ok := pkgs[file.Name.Name]
		if !ok {
			ps = &pkgScan{
				name:     file.Name.Name,
				methods:  make(map[string][]string),
				declared: make(map[string]bool),
			}
			pkgs[file.Name.Name] = ps
		}
		s.collect(ps, file)
	}

	names := make([]string, 0, len(pkgs))
	for name := range pkgs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*pkgScan, 0, len(names))
	for _, name := range names {
		out = append(out, pkgs[name])
	}
	s.log.Debug().Str("dir", dir).Int("packages", len(pkgs)).Msg("scanned")
	return out, nil
}

func (s *scanner) collect(ps *pkgScan, file *ast.File) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if _, isStruct := ts.Type.(*ast.StructType); isStruct {
					ps.types = append(ps.types, ts)
				}
			}
		case *ast.FuncDecl:
			if d.Recv == nil || len(d.Recv.List) == 0 || !d.Name.IsExported() {
				continue
			}
			recv := receiverTypeName(d.Recv.List[0].Type)
			if recv != "" {
				ps.methods[recv] = append(ps.methods[recv], d.Name.Name)
			}
		}
	}

	imports := importNames(file)
	ast.Inspect(file, func(n ast.Node) bool {
		ix, ok := n.(*ast.IndexExpr)
		if !ok {
			return true
		}
		if !declareFuncs[funcName(ix.X)] {
			return true
		}
		switch arg := ix.Index.(type) {
		case *ast.Ident:
			ps.declared[arg.Name] = true
		case *ast.SelectorExpr:
			qual, ok := arg.X.(*ast.Ident)
			if !ok {
				return true
			}
			pkg := qual.Name
			if name, ok := imports[pkg]; ok {
				pkg = name
			}
			s.declared[pkg+"."+arg.Sel.Name] = true
		}
		return true
	})
}

// importNames maps each import's local name in file to its package name.
func importNames(file *ast.File) map[string]string {
	names := make(map[string]string, len(file.Imports))
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		pkg := importPackageName(path)
		local := pkg
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				continue
			}
			local = imp.Name.Name
		}
		names[local] = pkg
	}
	return names
}

// importPackageName guesses the package name of an import path from its last
// element, skipping a major version suffix: "example.com/jobs/v2" gives "jobs".
func importPackageName(path string) string {
	parts := strings.Split(path, "/")
	name := parts[len(parts)-1]
	if len(parts) > 1 && isMajorVersion(name) {
		name = parts[len(parts)-2]
	}
	return name
}

func isMajorVersion(elem string) bool {
	if len(elem) < 2 || elem[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(elem[1:])
	return err == nil
}

func (s *scanner) check(ps *pkgScan) []Finding {
	var out []Finding
	for _, ts := range ps.types {
		typ := ts.Name.Name
		class := ps.name + "." + typ
		wanted := ps.declared[typ] || s.declared[class] || anyMatches(s.cfg.Types, ps.name, typ)
		if !wanted || anyMatches(s.cfg.Ignore, ps.name, typ) {
			continue
		}

		methods := ps.methods[typ]
		f := Finding{
			Class:   class,
			Pos:     s.fset.Position(ts.Pos()).String(),
			Methods: append([]string{}, methods...),
		}

		trigger, err := di.CheckContract(class, methods)
		if err != nil {
			f.Kind = violationKind(err)
			f.Error = err.Error()
			s.log.Debug().Str("class", class).Str("kind", f.Kind).Msg("contract violation")
		} else {
			f.Trigger = trigger
		}
		out = append(out, f)
	}
	return out
}

func violationKind(err error) string {
	var (
		missing di.MissingTriggerError
		dup     di.DuplicateTriggerError
		extra   di.ExtraPublicSurfaceError
	)
	switch {
	case errors.As(err, &missing):
		return "missing_trigger"
	case errors.As(err, &dup):
		return "duplicate_trigger"
	case errors.As(err, &extra):
		return "extra_public_surface"
	default:
		return "unknown"
	}
}

// receiverTypeName strips pointers, parens and type parameters from a
// receiver: *Foo, Foo[T] and (*Foo) all give "Foo".
func receiverTypeName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return receiverTypeName(e.X)
	case *ast.ParenExpr:
		return receiverTypeName(e.X)
	case *ast.IndexExpr:
		return receiverTypeName(e.X)
	case *ast.IndexListExpr:
		return receiverTypeName(e.X)
	default:
		return ""
	}
}

// funcName returns the called name of Declare / di.Declare / x.y.Declare.
func funcName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return e.Sel.Name
	default:
		return ""
	}
}
