// Package handler adapts HTTP requests to the service layer: it binds and
// validates input, calls a service and writes the JSON result.
package handler
