/*

The macros package expands the macros of a small line-oriented token
language. The source is split into lines of tokens by Tokenize and the
lines are then passed to the Process method of an Engine which defines
macros and replaces macro invocations with the expanded macro body.

A macro is defined by a block of lines. The first line starts with the
macro name prefixed by '!' and is followed by the parameter names. The
block ends with a line starting with '!!'. For instance:

	!double x
	op add x! x! x!
	!!

A macro is invoked by a line starting with the macro name followed by '!'
and then the arguments:

	double! 5

which expands to:

	op add 5 5 5

Any line which neither defines nor invokes a macro is copied to the output
unchanged. Expansion is not recursive: the expanded lines are not examined
again for invocations.

Macros can also be loaded on demand from files held in a set of macro
directories. A macro that is not defined in the source is searched for in
a file with the same name as the macro (possibly with a suffix). The file
may hold only definition blocks and only the definition of the macro
being looked up is taken from it.

*/
package macros
