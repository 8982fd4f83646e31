package macros

import (
	"sort"
	"strings"

	"github.com/nickwells/location.mod/location"
)

// Macro is a named template. Params holds the parameter tokens exactly as
// they were given on the definition line and Body holds the unexpanded
// lines between the definition line and the terminator.
type Macro struct {
	Name   string
	Params []string
	Body   []Line
	Loc    *location.L
}

// String returns the macro as a definition block which, if tokenized,
// would define the same macro
func (m *Macro) String() string {
	var b strings.Builder

	b.WriteString("!" + m.Name)
	for _, p := range m.Params {
		b.WriteString(" " + p)
	}
	b.WriteString("\n")
	for _, l := range m.Body {
		b.WriteString("\t" + l.String() + "\n")
	}
	b.WriteString("!!")

	return b.String()
}

// bind pairs the parameters with the arguments positionally. Pairing stops
// at the shorter of the two; any unmatched parameters are returned.
func (m *Macro) bind(args []Token) (map[string]Token, []string) {
	bound := make(map[string]Token, len(m.Params))
	for i, p := range m.Params {
		if i >= len(args) {
			return bound, m.Params[i:]
		}
		bound[p] = args[i]
	}
	return bound, nil
}

// Table maps macro names to macros
type Table map[string]*Macro

// Names returns the macro names in sorted order
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// String returns every macro in the table, in name order, separated by
// blank lines
func (t Table) String() string {
	strs := make([]string, 0, len(t))
	for _, n := range t.Names() {
		strs = append(strs, t[n].String())
	}
	return strings.Join(strs, "\n\n")
}

// copy returns a shallow copy of the table
func (t Table) copy() Table {
	c := make(Table, len(t))
	for n, m := range t {
		c[n] = m
	}
	return c
}
