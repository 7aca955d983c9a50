// internal/holdings/store.go
package holdings

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

// Store хранит отображаемый набор балансов. Результат обновления применяется,
// только если он новее последнего применённого: запоздавший ответ отбрасывается.
type Store struct {
	mu        sync.RWMutex
	records   []domain.HoldingRecord
	applied   uint64
	updatedAt time.Time
	logger    *zap.Logger

	next uint64

	// Статистика (атомарно)
	reads     uint64
	writes    uint64
	discarded uint64
}

func NewStore(logger *zap.Logger) *Store {
	return &Store{
		records: []domain.HoldingRecord{},
		logger:  logger.Named("holdings-store"),
	}
}

// Begin выдаёт номер очередного обновления. Номера строго возрастают.
func (s *Store) Begin() uint64 {
	return atomic.AddUint64(&s.next, 1)
}

// Apply заменяет набор целиком, если seq новее последнего применённого.
// Возвращает false, если результат устарел и был отброшен.
func (s *Store) Apply(seq uint64, records []domain.HoldingRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.applied {
		atomic.AddUint64(&s.discarded, 1)
		s.logger.Debug("Discarding stale holdings result",
			zap.Uint64("seq", seq),
			zap.Uint64("applied", s.applied))
		return false
	}

	snapshot := make([]domain.HoldingRecord, len(records))
	copy(snapshot, records)

	s.records = snapshot
	s.applied = seq
	s.updatedAt = time.Now()
	atomic.AddUint64(&s.writes, 1)
	return true
}

// Snapshot возвращает копию текущего набора и время его обновления.
func (s *Store) Snapshot() ([]domain.HoldingRecord, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	atomic.AddUint64(&s.reads, 1)
	out := make([]domain.HoldingRecord, len(s.records))
	copy(out, s.records)
	return out, s.updatedAt
}

// Applied: номер последнего применённого обновления.
func (s *Store) Applied() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applied
}

// GetStats returns store statistics
func (s *Store) GetStats() (records, reads, writes, discarded uint64) {
	s.mu.RLock()
	records = uint64(len(s.records))
	s.mu.RUnlock()

	reads = atomic.LoadUint64(&s.reads)
	writes = atomic.LoadUint64(&s.writes)
	discarded = atomic.LoadUint64(&s.discarded)
	return
}
