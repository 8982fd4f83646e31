package macros

import (
	"fmt"
	"strings"

	"github.com/nickwells/location.mod/location"
)

// UnterminatedMacroError is returned when the input ends inside a
// definition block. Loc is the location of the definition line.
type UnterminatedMacroError struct {
	Name string
	Loc  *location.L
}

func (e *UnterminatedMacroError) Error() string {
	return fmt.Sprintf("Macro '%s' at %s was not terminated with '!!'",
		e.Name, e.Loc)
}

// UnknownMacroError is returned when an invocation names a macro that has
// not been defined. Dirs lists any macro directories that were searched.
type UnknownMacroError struct {
	Name string
	Loc  *location.L
	Dirs []string
}

func (e *UnknownMacroError) Error() string {
	errStr := fmt.Sprintf("Macro '%s' at %s was not found", e.Name, e.Loc)
	if len(e.Dirs) == 1 {
		errStr += " in the macro directory: " + e.Dirs[0]
	} else if len(e.Dirs) > 1 {
		errStr += " in any of the macro directories: " +
			strings.Join(e.Dirs, ", ")
	}
	return errStr
}

// LibraryError is returned when a file in a macro directory cannot be
// used. Loc is nil if the problem is with the file as a whole.
type LibraryError struct {
	Path string
	Loc  *location.L
	Msg  string
}

func (e *LibraryError) Error() string {
	if e.Loc != nil {
		return fmt.Sprintf("Bad macro library at %s: %s", e.Loc, e.Msg)
	}
	return fmt.Sprintf("Bad macro library %q: %s", e.Path, e.Msg)
}

// WarningKind classifies the soft problems found while processing
type WarningKind int

// These are the kinds of warning
const (
	UnboundParameter WarningKind = iota
	Redefinition
)

// Warning records a problem that did not stop processing
type Warning struct {
	Kind  WarningKind
	Macro string
	Param string
	Loc   *location.L
}

func (w Warning) String() string {
	switch w.Kind {
	case UnboundParameter:
		return fmt.Sprintf(
			"Macro '%s' at %s: no argument for parameter '%s',"+
				" the reference is left unchanged",
			w.Macro, w.Loc, w.Param)
	case Redefinition:
		return fmt.Sprintf("Macro '%s' at %s replaces an earlier definition",
			w.Macro, w.Loc)
	}
	return fmt.Sprintf("Macro '%s' at %s: unknown warning", w.Macro, w.Loc)
}
