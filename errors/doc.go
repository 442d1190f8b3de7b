/*
Package errors holds the registered errors of the ledger and the helpers
to wrap, group and inspect them.

Every failure returned by a handler wraps one of the registered roots, so
ErrNotFound.Is(err) works through any number of Wrap, Field and Append
layers, and the ABCI code of the root is what a client receives. Packages
with failures of their own register them with Register(code, desc) in a
package variable block, each package owning a range of codes.

The first Wrap records where the error happened:

	%s   prints the message
	%v   adds a [file:line] suffix
	%+v  prints the whole stack trace before the message
*/
package errors
