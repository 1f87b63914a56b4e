package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/bsuir-rt/rtutils/internal/grammar"
	"github.com/bsuir-rt/rtutils/internal/report"
)

// ErrInvalidText is returned for files that are not valid UTF-8
var ErrInvalidText = errors.New("not valid UTF-8 text")

// Project is the outcome of resolving one project
type Project struct {
	Name       string   // Short name, from the directory holding the sources
	Source     string   // Source directory the manifest lives in
	Root       string   // Path of the root document
	Files      []string // Files parsed, relative to Source, in order
	References []string // Every reference discovered, in order, duplicates kept
	Drained    int      // Leading References that were parsed; the rest were found while draining
	Warnings   int      // Unknown-command diagnostics emitted
}

// Parser walks project documents and resolves their file references.
// A Parser is not safe for concurrent use: the reference list and the
// active command name are shared by the whole walk of one project.
type Parser struct {
	fs        afero.Fs
	sink      report.Sink
	log       zerolog.Logger
	sourceDir string
	manifest  string
	extension string
	annotate  func(Annotation)

	pending     []string
	commandName string
	file        string
	warnings    int
}

// NewParser creates a parser reading from fs and reporting to sink
func NewParser(fs afero.Fs, sink report.Sink) *Parser {
	return &Parser{
		fs:        fs,
		sink:      sink,
		log:       zerolog.Nop(),
		sourceDir: "src",
		manifest:  "manifest.tex",
		extension: ".tex",
	}
}

// WithLogger sets the logger used for tracing
func (p *Parser) WithLogger(log zerolog.Logger) *Parser {
	p.log = log
	return p
}

// WithLayout sets the source directory name, root document name and the
// extension appended to extension-less references
func (p *Parser) WithLayout(sourceDir, manifest, extension string) *Parser {
	p.sourceDir = sourceDir
	p.manifest = manifest
	p.extension = extension
	return p
}

// OnAnnotation registers a hook receiving every top-level documentation comment
func (p *Parser) OnAnnotation(fn func(Annotation)) *Parser {
	p.annotate = fn
	return p
}

// Pending returns a copy of the live reference list
func (p *Parser) Pending() []string {
	return slices.Clone(p.pending)
}

// ============================================================================
// Project Resolution
// ============================================================================

// Generate resolves each source directory in order, stopping at the first failure
func (p *Parser) Generate(dirs []string) ([]*Project, error) {
	p.sink.Banner()

	projects := make([]*Project, 0, len(dirs))
	for _, dir := range dirs {
		project, err := p.Project(dir)
		if err != nil {
			return projects, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// Project parses the root document of the project in dir, then every file it
// references. References found while draining are recorded but not parsed:
// resolution goes one level deep from the root.
func (p *Parser) Project(dir string) (*Project, error) {
	p.reset()
	defer p.reset()

	project := &Project{
		Name:   p.projectName(dir),
		Source: dir,
		Root:   filepath.Join(dir, p.manifest),
	}
	p.sink.Project(project.Name)

	if err := p.parseFile(project, project.Root); err != nil {
		return nil, err
	}

	queue := slices.Clone(p.pending)
	p.log.Debug().
		Str("project", project.Name).
		Strs("references", queue).
		Msg("root parsed")

	for _, ref := range queue {
		if err := p.parseFile(project, p.resolve(dir, ref)); err != nil {
			return nil, err
		}
	}

	project.References = slices.Clone(p.pending)
	project.Drained = len(queue)
	project.Warnings = p.warnings
	if len(project.References) > project.Drained {
		p.log.Debug().
			Str("project", project.Name).
			Strs("unvisited", project.References[project.Drained:]).
			Msg("references below the first level are not parsed")
	}
	return project, nil
}

func (p *Parser) reset() {
	p.pending = nil
	p.commandName = ""
	p.file = ""
	p.warnings = 0
}

func (p *Parser) parseFile(project *Project, path string) error {
	rel := relative(project.Source, path)
	p.sink.Parsing(rel)

	content, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if !utf8.Valid(content) {
		return fmt.Errorf("failed to read file %s: %w", path, ErrInvalidText)
	}
	p.log.Debug().Str("file", path).Int("bytes", len(content)).Msg("read")

	// SyntaxError already reads "path:line:col: msg"
	tree, err := grammar.Parse(grammar.RuleDocument, path, string(content))
	if err != nil {
		return err
	}

	project.Files = append(project.Files, rel)
	p.file = path
	return p.walk(tree)
}

// ============================================================================
// Paths
// ============================================================================

// projectName derives the short name: the directory holding the source
// directory, or the directory itself when it is not named like one
func (p *Parser) projectName(dir string) string {
	clean := filepath.Clean(dir)
	if filepath.Base(clean) == p.sourceDir {
		clean = filepath.Dir(clean)
	}
	return filepath.Base(clean)
}

// resolve maps a reference to a path under the project's source directory
func (p *Parser) resolve(dir, ref string) string {
	path := ref
	if filepath.Ext(path) == "" {
		path += p.extension
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func relative(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
