// Package storage provides audit record backends: an in-memory store for
// tests and short-lived runs, and a SQLite store for persistence.
package storage
