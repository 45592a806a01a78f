package devwallets

import "context"

// Backend stores opaque blobs under flat keys. Read and Remove return
// common.ErrorNotFound when the key is absent.
type Backend interface {
	Write(ctx context.Context, key string, data []byte) error
	Read(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Remove(ctx context.Context, key string) error
}
