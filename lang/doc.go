// Package lang implements the "${...}" expression language used in template
// file contents, file names, and hook commands.
//
// # Syntax
//
//	${name}                          variable
//	${'text'}                        literal (escapes: \n \r \t \\ \')
//	${a 'b' c}                       concatenation
//	${a == b}                        equality
//	${cond ? then : else}            condition
//	${a ?? b}                        null check
//	${#exists('path')}               file existence
//	${#include('path')}              raw file content
//	${#make('path', k=expr, -other)} nested template expansion
//
// Every expression renders text and reports whether it is present. An
// undefined variable renders nothing and is absent; a variable defined as
// the empty string renders nothing and is present. Conditions and null checks
// test presence, never text.
//
// # Pipeline
//
// A [Source] feeds a [Lexer], whose tokens a [Parser] turns into an [Expr].
// [Scope.Expand] streams text through this pipeline, evaluating each
// expression as it is reached. [Compile] parses a string ahead of time into a
// cached [Template] for strings that are expanded repeatedly.
package lang
