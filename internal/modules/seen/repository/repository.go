package repository

import "context"

// Repository is the durable at-most-once admission store backing the dedup
// check. Admit returns false the first time a key is seen and true on every
// later attempt; the admission must be atomic under concurrent callers.
type Repository interface {
	Admit(ctx context.Context, key string) (seen bool, err error)
	Close() error
}
