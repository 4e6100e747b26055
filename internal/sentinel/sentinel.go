// Package sentinel provides a string-backed error type for declaring
// immutable sentinel errors.
//
// errors.New returns a *errors.errorString, which must live in a package
// variable and can be silently reassigned. Error is a string type, so
// sentinels built from it can be declared as untouchable consts while still
// satisfying errors.Is through ordinary == comparison on wrapped chains.
package sentinel

// Compile-time check that Error implements the error interface.
var _ error = Error("")

// Error is an error value backed by a plain string constant.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}
