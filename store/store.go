// Package store 提供 core.Store 的实现，接口定义在 core 包。
//
// 用途：
//   - 持久化推荐快照，让“每天刷新一次”在进程重启后依然成立
//   - 保存用户排除的配方 / 配料列表（filter.StoreAdapter）
//
// 示例：
//
//	var s core.Store = store.NewMemoryStore()
//	r, err := store.NewRedisStore("localhost:6379", 0)
package store

import (
	"fmt"

	"github.com/rushteam/barkeep/core"
)

// Backend 是存储后端类型。
type Backend string

const (
	BackendNone   Backend = "none"
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)

// Open 按后端类型创建 Store；BackendNone 返回 (nil, nil)。
func Open(backend Backend, redisAddr string, redisDB int) (core.Store, error) {
	switch backend {
	case "", BackendNone:
		return nil, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		rs, err := NewRedisStore(redisAddr, redisDB)
		if err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", core.ErrStoreNotSupported, backend)
	}
}
