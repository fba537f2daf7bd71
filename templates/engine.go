// templates/engine.go
package templates

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"regexp"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// SharedSet is the name of the set holding the layout and partials every
// page is compiled against.
const SharedSet = "shared"

// Set is a group of template files from one package.
type Set struct {
	// Name is used in logs; SharedSet marks the layout set.
	Name string
	// FS is usually the package's embed.FS.
	FS fs.FS
	// Patterns are fs.Glob patterns, e.g. "templates/*.gohtml".
	Patterns []string
}

// Engine compiles the shared set once and clones it for every page file,
// so each page's "content" block stays private to that page.
type Engine struct {
	mu     sync.RWMutex
	sets   []Set
	funcs  template.FuncMap
	byName map[string]*template.Template
	logger *zap.Logger
}

// New returns an empty Engine. Add sets, then call Boot.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		funcs:  Funcs(),
		byName: map[string]*template.Template{},
		logger: logger,
	}
}

// Add registers a set. Sets added after Boot are ignored until the next Boot.
func (e *Engine) Add(s Set) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sets = append(e.sets, s)
}

// Boot parses every registered set.
func (e *Engine) Boot() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		shared *Set
		pages  []Set
	)
	for i := range e.sets {
		if e.sets[i].Name == SharedSet {
			shared = &e.sets[i]
			continue
		}
		pages = append(pages, e.sets[i])
	}
	if shared == nil {
		return errors.New("templates: shared set not registered")
	}

	base := template.New("root").Funcs(e.funcs)
	files, err := globAll(shared.FS, shared.Patterns)
	if err != nil {
		return fmt.Errorf("glob shared: %w", err)
	}
	for _, f := range files {
		if err := parseFile(base, shared.FS, f); err != nil {
			return err
		}
	}

	byName := map[string]*template.Template{}
	for _, s := range pages {
		files, err := globAll(s.FS, s.Patterns)
		if err != nil {
			return fmt.Errorf("glob %s: %w", s.Name, err)
		}
		if len(files) == 0 {
			e.logger.Warn("template set matched no files", zap.String("set", s.Name))
		}
		for _, f := range files {
			page, err := base.Clone()
			if err != nil {
				return fmt.Errorf("clone shared for %s: %w", f, err)
			}
			src, err := fs.ReadFile(s.FS, f)
			if err != nil {
				return fmt.Errorf("read %s: %w", f, err)
			}
			if _, err := page.Parse(string(src)); err != nil {
				return fmt.Errorf("parse %s: %w", f, err)
			}
			for _, name := range definedNames(src) {
				if name == "content" {
					continue
				}
				if _, dup := byName[name]; dup {
					return fmt.Errorf("template %q defined by more than one page (%s)", name, f)
				}
				byName[name] = page
			}
			e.logger.Debug("template page compiled",
				zap.String("set", s.Name), zap.String("page", path.Base(f)))
		}
	}
	e.byName = byName
	return nil
}

// Execute runs the named page template into w. Output is buffered so a
// failing template writes nothing.
func (e *Engine) Execute(w io.Writer, name string, data any) error {
	e.mu.RLock()
	t, ok := e.byName[name]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// Render writes the named page as text/html with status. A render failure
// is logged and answered with a bare 500.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := e.Execute(&buf, name, data); err != nil {
		e.logger.Error("template render failed", zap.String("name", name), zap.Error(err))
		http.Error(w, "template exec error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

var reDefine = regexp.MustCompile(`{{-?\s*define\s+"([^"]+)"`)

func definedNames(src []byte) []string {
	var out []string
	for _, m := range reDefine.FindAllSubmatch(src, -1) {
		out = append(out, string(m[1]))
	}
	return out
}

func parseFile(t *template.Template, fsys fs.FS, name string) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if _, err := t.Parse(string(b)); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func globAll(fsys fs.FS, patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range patterns {
		matches, err := fs.Glob(fsys, p)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
