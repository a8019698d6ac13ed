// Package repository holds the storage-backed collaborators of the service layer.
//
// The only store is Redis, used as a best-effort cache; a repository built
// without a client behaves as an always-empty cache.
package repository
