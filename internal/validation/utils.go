// Package validation binds request data and turns validator failures into
// field-level errs.HTTPError responses.
package validation
