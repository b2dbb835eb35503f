// Package argparse is a declarative command-line argument parser.
//
// Arguments are defined with typed builders and registered on a Parser in
// priority order. A name starting with a prefix char ("--count") is an
// optional argument matched by identifier; any other name ("file") is a
// positional argument matched by position. Each argument has an Arity that
// decides how many value tokens it consumes:
//
//	p := argparse.New("prog", "counts things")
//	p.MustAdd(
//		argparse.Int("count").Required(),
//		argparse.Bool("--verbose").Alias("-v"),
//		argparse.String("--tags").Arity(argparse.ArityZeroOrMore),
//	)
//	res, err := p.ParseArgs([]string{"42", "--verbose"})
//
// Parsing scans tokens left to right; at each position the first argument
// that matches wins and unmatched tokens become extras. The result maps
// each argument's key (its name without prefix chars, unless set with Key)
// to the converted value and the raw tokens it consumed.
//
// The parser never exits the process. After rendering help it asks the
// configured Exiter to terminate and returns ErrHelpShown; ParseOrExit
// does the same for errors, using ExitCodeManager to pick the code.
//
// Definitions can also come from TOML, YAML or JSON tables (LoadTable) or
// from struct tags (TableFor), and results can be copied into structs with
// Bind.
package argparse
