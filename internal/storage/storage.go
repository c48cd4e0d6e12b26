// Package storage provides the key-value persistence layer the account store
// is built on. Values are opaque strings; callers own the encoding.
package storage

// Storage is a minimal durable string key-value store.
type Storage interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	// Set stores the value, replacing any previous one.
	Set(key, value string) error
	// Remove deletes the key; removing an absent key is not an error.
	Remove(key string) error
}
