package store

import "errors"

// ErrNotFound 表示键不存在 / ErrNotFound means the key is absent
var ErrNotFound = errors.New("store: key not found")

// Store 持久化键值契约，支持多后端 (JSON 文件 / SQLite)。
// 上层代码（凭据、会话）只依赖该接口，不接触具体存储 API，
// 因此同一套核心逻辑可以在不同运行面之间复用。
// Store is the key-value persistence contract supporting multiple backends
// (JSON file / SQLite). The core never touches the underlying storage API
// directly, so the same logic runs unchanged on every surface.
type Store interface {
	// Get 读取键值；键不存在时返回 ErrNotFound
	// Get reads a value; returns ErrNotFound when the key is absent
	Get(key string) (string, error)

	// Set 原子覆盖写入 / Set overwrites the value atomically
	Set(key, value string) error

	// Delete 删除键；键不存在不视为错误
	// Delete removes a key; a missing key is not an error
	Delete(key string) error

	// Close 释放底层资源 / Close releases backend resources
	Close() error
}
