// Package errs holds the error envelope returned by the API for requests the
// service refuses to process (bad input, rate limiting, unknown routes).
//
// Workflow failures from the user endpoints are not errs: they are reported
// in-band as a 200 with success=false.
package errs
