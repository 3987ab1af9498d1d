// Package apperrors defines the application error type used across the
// service. It extends the standard error interface with error chaining and
// HTTP status codes so that transport layers can map errors without type
// switches on concrete implementations.
package apperrors

// Error is the interface implemented by all application errors. Errors form
// chains: derived errors keep a reference to their template so errors.Is
// matches anywhere along the chain. Methods return Error to allow chaining.
type Error interface {
	error
	Unwrap() error // supports errors.Is / errors.As

	New(msg string) Error                  // derive a fresh error from this one as template
	Msg(msg string) Error                  // new error with message, wrapping the original
	MsgErr(msg string, err ...error) Error // new error with message, wrapping extra errors
	Err(err ...error) Error                // attach additional errors, keeping the message
	SetExpandError(bool) Error             // control whether ErrorAll includes wrapped errors
	SetStatusCode(int) Error               // set the HTTP status code
	StatusCode() int                       // current HTTP status code
	ErrorAll() string                      // full message including wrapped errors
	UnwrapAll() []error                    // all wrapped errors
}
