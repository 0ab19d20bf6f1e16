// Command communitygo is the CLI entrypoint: a single cobra root command
// with detect/evaluate subcommands reading DOT or JSON from --in or stdin,
// grounded on the teacher's sibling CLIs' flag-driven invocation style but
// rebuilt on cobra per spec.md §6's "--in/--out/--format" flag shape.
package main

import (
	"fmt"
	"os"
)

func main() {
	code := run(os.Args[1:])
	os.Exit(code)
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if ec, ok := err.(*exitCodeError); ok {
			fmt.Fprintln(os.Stderr, ec.Error())
			return ec.code
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// exitCodeError carries one of spec.md §6's numbered exit codes alongside
// a human message, so subcommand RunE functions can signal the precise
// failure class back to main without cobra's own error formatting getting
// in the way.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

func newExitError(code int, format string, args ...interface{}) *exitCodeError {
	return &exitCodeError{code: code, msg: fmt.Sprintf(format, args...)}
}
