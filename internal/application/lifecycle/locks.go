package lifecycle

import "sync"

// bookLocks 按书籍 ID 串行化聚合字段的重算
type bookLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newBookLocks() *bookLocks {
	return &bookLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire 锁定指定书籍，返回解锁函数
func (l *bookLocks) acquire(bookID string) func() {
	l.mu.Lock()
	m, ok := l.locks[bookID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[bookID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
