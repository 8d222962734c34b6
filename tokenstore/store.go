package tokenstore

// Store persists the single bearer token of this client. Implementations keep
// at most one value under a fixed key: Set overwrites, Clear removes, and Get
// returns errors.ErrTokenNotFound when nothing is stored.
type Store interface {
	Get() (string, error)
	Set(token string) error
	Clear() error
}
