/*
Package x contains the extensions of the pension ledger chain.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together to construct an application.
This package only declares the authentication contract shared by all of
them. Sub-packages provide signature verification, token wallets, the
pension ledger itself and generic middleware.

Note that protobuf types in exported code will be prefixed by
the package, so follow standard go naming conventions and avoid
stutter. Use eg. `pension.CreateMsg` in place of `pension.PensionCreateMsg`.
*/
package x
