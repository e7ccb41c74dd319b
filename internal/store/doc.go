// Package store provides file-based persistence for the local identity.
//
// The identity is serialised as JSON and sealed with a passphrase-derived
// key before it touches disk. All methods are concurrency-safe via internal
// locking. The store file lives under the user's configured home directory.
package store
