package macros

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nickwells/check.mod/v2/check"
	"github.com/nickwells/filecheck.mod/filecheck"
	"github.com/nickwells/location.mod/location"
)

// Engine records the macros defined so far and expands invocations
//
// You should create a new Engine with NewEngine. If you want macros to be
// loaded on demand from files then give the macro directories when the
// Engine is created.
//
// You can then call Process with the tokenized lines. Macros defined in
// one call remain defined for any later call.
type Engine struct {
	table    Table
	mDirs    []string
	suffixes []string
	loaded   map[string]error
	warnings []Warning
}

type OptFunc func(e *Engine) error

// NewEngine creates a new Engine object.
func NewEngine(opts ...OptFunc) (*Engine, error) {
	e := &Engine{
		table:    make(Table),
		mDirs:    make([]string, 0),
		suffixes: []string{""},
		loaded:   make(map[string]error),
	}

	for _, o := range opts {
		if err := o(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Dirs returns an OptFunc that will add the directory names to the,
// initially empty, set of directories to be searched for macros that have
// not been defined in the source. Each of the passed values must be a
// directory, an error will be returned if not and none of the passed
// values will be added.
func Dirs(dirs ...string) OptFunc {
	return func(e *Engine) error {
		if len(dirs) == 0 {
			return fmt.Errorf("at least one macros directory must be passed")
		}

		es := filecheck.Provisos{
			Checks:    []check.FileInfo{check.FileInfoIsDir},
			Existence: filecheck.MustExist,
		}
		for _, dir := range dirs {
			err := es.StatusCheck(dir)
			if err != nil {
				return fmt.Errorf("bad macros directory %q: %w", dir, err)
			}
		}

		e.mDirs = append(e.mDirs, dirs...)
		return nil
	}
}

// Suffix returns an OptFunc that will add a suffix to the list of strings to
// be tried as suffixes. Any suffix must be complete and include the
// separator (if any). For instance ".mll". The suffixes are tried in the
// order they are added and there is always a first, empty suffix so that a
// macro name will always match a file with the exact same name.
func Suffix(suffix string) OptFunc {
	return func(e *Engine) error {
		e.suffixes = append(e.suffixes, suffix)

		return nil
	}
}

// AddMacro will add the macro to the macro table, replacing any macro of
// the same name
func (e *Engine) AddMacro(m *Macro) {
	e.table[m.Name] = m
}

// Macros returns a copy of the macro table
func (e *Engine) Macros() Table {
	return e.table.copy()
}

// Warnings returns the warnings recorded so far
func (e *Engine) Warnings() []Warning {
	return append([]Warning(nil), e.warnings...)
}

// Find searches for the macro name in the table. If it is not found and
// there are macro directories to be searched then it will search for a
// matching file name and, if it finds one, it will load the macro from
// that file. If no matching macro is found an error is returned. The
// result of loading each file is remembered so a failing file gives the
// same error every time.
func (e *Engine) Find(mName string, loc *location.L) (*Macro, error) {
	if m, ok := e.table[mName]; ok {
		return m, nil
	}

	for _, fd := range e.mDirs {
		for _, suffix := range e.suffixes {
			path := filepath.Join(fd, mName+suffix)
			err, seen := e.loaded[path]
			if !seen {
				content, rErr := os.ReadFile(path)
				if rErr != nil {
					continue
				}
				var m *Macro
				m, err = loadLibrary(path, mName, string(content))
				e.loaded[path] = err
				if err == nil {
					e.table[mName] = m
					return m, nil
				}
			}
			if err != nil {
				return nil, err
			}
		}
	}

	return nil, &UnknownMacroError{Name: mName, Loc: loc, Dirs: e.mDirs}
}

// loadLibrary checks the file content and returns the definition of the
// named macro. The file may hold nothing but definition blocks. Any other
// macros defined in the file are ignored.
func loadLibrary(path, mName, content string) (*Macro, error) {
	var found *Macro

	lines := TokenizeNamed(path, content)
	for i := 0; i < len(lines); {
		if lineRole(lines[i]) != roleDefinition {
			return nil, &LibraryError{
				Path: path,
				Loc:  lines[i].Loc,
				Msg:  "only macro definitions are allowed",
			}
		}
		m, next, err := define(lines, i)
		if err != nil {
			return nil, err
		}
		i = next
		if m.Name == mName {
			found = m
		}
	}

	if found == nil {
		return nil, &LibraryError{
			Path: path,
			Msg:  fmt.Sprintf("no definition of macro '%s'", mName),
		}
	}
	return found, nil
}

// role is the part a line plays in the input
type role int

const (
	rolePassThrough role = iota
	roleDefinition
	roleInvocation
)

// lineRole classifies the line by its first token
func lineRole(l Line) role {
	if len(l.Tokens) == 0 {
		return rolePassThrough
	}
	first := l.first()
	switch {
	case first.isDefinitionStart():
		return roleDefinition
	case first.isBanged():
		return roleInvocation
	}
	return rolePassThrough
}

// Process runs through the lines once, defining macros and replacing
// invocations with the expanded macro body. Lines which neither define nor
// invoke a macro are copied unchanged. The result is the output lines
// joined into text (see JoinLines). If a definition is not terminated or
// an invocation names an unknown macro an error is returned and no output
// is produced.
func (e *Engine) Process(lines []Line) (string, error) {
	out, err := e.ProcessLines(lines)
	if err != nil {
		return "", err
	}
	return JoinLines(out), nil
}

// ProcessLines is like Process but returns the output lines rather than
// the text
func (e *Engine) ProcessLines(lines []Line) ([]Line, error) {
	var out []Line

	for i := 0; i < len(lines); {
		l := lines[i]

		switch lineRole(l) {
		case roleDefinition:
			m, next, err := define(lines, i)
			if err != nil {
				return nil, err
			}
			i = next
			if _, ok := e.table[m.Name]; ok {
				e.warnings = append(e.warnings, Warning{
					Kind:  Redefinition,
					Macro: m.Name,
					Loc:   m.Loc,
				})
			}
			e.table[m.Name] = m
			continue
		case roleInvocation:
			expanded, err := e.invoke(l)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
		default:
			out = append(out, l)
		}
		i++
	}

	return out, nil
}

// define reads the definition block starting at lines[start]. It returns
// the macro and the index of the line following the terminator.
func define(lines []Line, start int) (*Macro, int, error) {
	header := lines[start]
	m := &Macro{
		Name: strings.TrimPrefix(header.first().Text, "!"),
		Loc:  header.Loc,
	}
	for _, t := range header.Tokens[1:] {
		m.Params = append(m.Params, t.Text)
	}

	for i := start + 1; i < len(lines); i++ {
		if lines[i].isTerminator() {
			return m, i + 1, nil
		}
		m.Body = append(m.Body, lines[i])
	}

	return nil, len(lines), &UnterminatedMacroError{Name: m.Name, Loc: m.Loc}
}

// invoke returns the body of the macro named by the line with each
// parameter reference replaced by the matching argument. A reference to a
// parameter with no argument is left as it is. The expanded lines take the
// location of the invocation.
func (e *Engine) invoke(l Line) ([]Line, error) {
	name := l.first().bangName()
	m, err := e.Find(name, l.Loc)
	if err != nil {
		return nil, err
	}

	bound, unbound := m.bind(l.Tokens[1:])
	missing := make(map[string]bool, len(unbound))
	for _, p := range unbound {
		if _, ok := bound[p]; !ok {
			missing[p] = true
		}
	}

	expanded := make([]Line, 0, len(m.Body))
	for _, bl := range m.Body {
		tokens := make([]Token, 0, len(bl.Tokens))
		for _, t := range bl.Tokens {
			if t.isBanged() {
				pName := t.bangName()
				if arg, ok := bound[pName]; ok {
					tokens = append(tokens, arg)
					continue
				}
				if missing[pName] {
					delete(missing, pName)
					e.warnings = append(e.warnings, Warning{
						Kind:  UnboundParameter,
						Macro: name,
						Param: pName,
						Loc:   l.Loc,
					})
				}
			}
			tokens = append(tokens, t)
		}
		expanded = append(expanded, Line{Tokens: tokens, Loc: l.Loc})
	}

	return expanded, nil
}

// Expand tokenizes the source, giving it the name passed, and processes it
// with a new Engine. It returns the expanded text and the macros defined.
func Expand(name, src string) (string, Table, error) {
	e, err := NewEngine()
	if err != nil {
		return "", nil, err
	}
	out, err := e.Process(TokenizeNamed(name, src))
	if err != nil {
		return "", nil, err
	}
	return out, e.Macros(), nil
}
