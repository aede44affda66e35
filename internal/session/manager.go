package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mosdac/internal/store"
)

// DefaultTTL 会话存活时长，超过后下一次读取生成全新 ID
// DefaultTTL is how long a session id stays live; past it the next read
// produces a brand-new id
const DefaultTTL = 24 * time.Hour

const storeKey = "session"

// record 是持久化的会话记录；Timestamp 为创建时刻的 Unix 毫秒。
// record is the persisted session record; Timestamp is creation time in Unix ms.
type record struct {
	SessionID string `json:"session_id"`
	Timestamp int64  `json:"timestamp"`
}

// Manager 管理不透明的会话标识：惰性创建、TTL 过期、显式清除。
// 同一存储域内任意时刻最多只有一个存活的会话 ID；过期产生新 ID 而不是续期。
// Manager owns the opaque conversation session identity: lazy creation,
// TTL expiry, explicit clearing. At most one live id exists per storage
// scope; expiry yields a new id, never an extension of the old one.
type Manager struct {
	store store.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewManager 创建会话管理器；ttl <= 0 时使用 DefaultTTL
// NewManager creates a session manager; DefaultTTL applies when ttl <= 0
func NewManager(st store.Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: st, ttl: ttl, now: time.Now}
}

// GetSessionID 返回当前存活的会话 ID；不存在或已过期时创建并持久化新 ID。
// 持久化记录损坏时按不存在处理，绝不报错退出。
// GetSessionID returns the current live session id, creating and persisting
// a new one when absent or expired. A malformed record counts as absent.
func (m *Manager) GetSessionID() (string, error) {
	if rec, ok := m.load(); ok {
		if m.age(rec) < m.ttl {
			return rec.SessionID, nil
		}
	}
	return m.CreateNewSession()
}

// CreateNewSession 无条件生成新 ID 并覆盖持久化记录。
// ID 由时间戳加随机后缀构成，不与后端校验唯一性。
// CreateNewSession unconditionally generates a new id (timestamp plus random
// suffix, never validated against the backend) and overwrites the record.
func (m *Manager) CreateNewSession() (string, error) {
	now := m.now()
	id := newSessionID(now)
	data, err := json.Marshal(record{SessionID: id, Timestamp: now.UnixMilli()})
	if err != nil {
		return "", fmt.Errorf("marshal session record: %w", err)
	}
	if err := m.store.Set(storeKey, string(data)); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}
	return id, nil
}

// CurrentID 窥视当前记录而不隐式创建；第二个返回值表示是否存在且存活。
// CurrentID peeks at the record without implicit creation; the bool reports
// whether a live id exists.
func (m *Manager) CurrentID() (string, bool) {
	rec, ok := m.load()
	if !ok || m.age(rec) >= m.ttl {
		return "", false
	}
	return rec.SessionID, true
}

// ClearSession 删除持久化记录；直到下一次 GetSessionID 前不会隐式重建。
// ClearSession removes the persisted record; no id is recreated until the
// next GetSessionID call.
func (m *Manager) ClearSession() error {
	if err := m.store.Delete(storeKey); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// SessionAge 返回自创建起的时长；无记录或记录损坏时为 0
// SessionAge reports the duration since creation; zero when nothing usable
// is persisted
func (m *Manager) SessionAge() time.Duration {
	rec, ok := m.load()
	if !ok {
		return 0
	}
	return m.age(rec)
}

// IsExpired 判断持久化记录是否已达到 TTL；无记录时为 false。
// 与 GetSessionID/CurrentID 使用同一边界：age >= ttl 即视为失效。
// IsExpired reports whether the persisted record has reached the TTL;
// false when nothing is persisted. Same boundary as GetSessionID and
// CurrentID: age >= ttl means dead.
func (m *Manager) IsExpired() bool {
	return m.SessionAge() >= m.ttl
}

func (m *Manager) load() (record, bool) {
	raw, err := m.store.Get(storeKey)
	if err != nil {
		return record{}, false
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return record{}, false
	}
	if rec.SessionID == "" || rec.Timestamp <= 0 {
		return record{}, false
	}
	return rec, true
}

func (m *Manager) age(rec record) time.Duration {
	age := m.now().Sub(time.UnixMilli(rec.Timestamp))
	if age < 0 {
		return 0
	}
	return age
}

// newSessionID 生成新的会话 ID / newSessionID generates a new session id
func newSessionID(now time.Time) string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), hex.EncodeToString(buf))
}
