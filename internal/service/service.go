// Package service holds the business workflows behind the HTTP handlers and
// the CLI. Services never touch echo types.
package service
