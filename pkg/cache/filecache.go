package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"investment-agent/pkg/logger"
	"investment-agent/pkg/utils"
)

const fileExt = ".cache"

// record is the on-disk shape of a cache entry.
type record struct {
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Stats summarizes the state of the backing directory.
type Stats struct {
	TotalFiles     int     `json:"total_files"`
	ActiveEntries  int     `json:"active_entries"`
	ExpiredEntries int     `json:"expired_entries"`
	TotalSizeMB    float64 `json:"total_size_mb"`
}

// FileStore is a keyed TTL cache persisted as one JSON record per hashed key.
// Read and write failures are absorbed: a broken entry behaves like a miss.
type FileStore struct {
	dir        string
	defaultTTL time.Duration
	log        *logger.Logger

	mu  sync.Mutex
	now func() time.Time
}

func NewFileStore(dir string, defaultTTL time.Duration, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{
		dir:        dir,
		defaultTTL: defaultTTL,
		log:        log,
		now:        time.Now,
	}, nil
}

func (s *FileStore) path(key string) string {
	sum := md5.Sum([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+fileExt)
}

// Get loads the value stored under key into out. It returns false when the
// entry is absent, expired, or unreadable. Expired entries are deleted.
func (s *FileStore) Get(key string, out interface{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Error("Failed to read cache entry", logger.StringField("key", key), logger.ErrorField(err))
		}
		return false
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.log.Error("Failed to decode cache entry", logger.StringField("key", key), logger.ErrorField(err))
		return false
	}

	if s.now().After(rec.ExpiresAt) {
		if err := os.Remove(path); err != nil {
			s.log.Error("Failed to remove expired cache entry", logger.StringField("key", key), logger.ErrorField(err))
		}
		s.log.Debug("Cache expired", logger.StringField("key", key))
		return false
	}

	if err := json.Unmarshal(rec.Value, out); err != nil {
		s.log.Error("Failed to decode cached value", logger.StringField("key", key), logger.ErrorField(err))
		return false
	}

	s.log.Debug("Cache hit", logger.StringField("key", key))
	return true
}

// Set stores value under key with the store default TTL.
func (s *FileStore) Set(key string, value interface{}) bool {
	return s.SetWithTTL(key, value, s.defaultTTL)
}

// SetWithTTL stores value under key, expiring after ttl. An existing record
// for the key is overwritten. Returns false on any failure.
func (s *FileStore) SetWithTTL(key string, value interface{}, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Error("Failed to encode cache value", logger.StringField("key", key), logger.ErrorField(err))
		return false
	}

	now := s.now()
	rec := record{
		Value:     raw,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		s.log.Error("Failed to encode cache entry", logger.StringField("key", key), logger.ErrorField(err))
		return false
	}

	if err := writeFileAtomic(s.path(key), data); err != nil {
		s.log.Error("Failed to write cache entry", logger.StringField("key", key), logger.ErrorField(err))
		return false
	}

	s.log.Debug("Cached value", logger.StringField("key", key))
	return true
}

// Clear deletes the entry stored under key. A missing entry is not an error.
func (s *FileStore) Clear(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		s.log.Error("Failed to clear cache entry", logger.StringField("key", key), logger.ErrorField(err))
		return false
	}
	return true
}

// ClearAll deletes every record under the store directory.
func (s *FileStore) ClearAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := true
	for _, path := range s.entryPaths() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.Error("Failed to clear cache entry", logger.StringField("path", path), logger.ErrorField(err))
			ok = false
		}
	}
	return ok
}

// Stats scans every persisted record and classifies it by expiry. Records
// that cannot be read count as expired.
func (s *FileStore) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats Stats
	var totalSize int64

	for _, path := range s.entryPaths() {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		stats.TotalFiles++
		totalSize += info.Size()

		var rec record
		raw, err := os.ReadFile(path)
		if err != nil || json.Unmarshal(raw, &rec) != nil {
			stats.ExpiredEntries++
			continue
		}
		if s.now().After(rec.ExpiresAt) {
			stats.ExpiredEntries++
		} else {
			stats.ActiveEntries++
		}
	}

	stats.TotalSizeMB = utils.RoundTo(float64(totalSize)/(1024*1024), 2)
	return stats
}

// SweepExpired eagerly deletes expired records and returns how many were
// removed. Expiry is otherwise lazy, so this only keeps the directory tidy.
func (s *FileStore) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, path := range s.entryPaths() {
		var rec record
		raw, err := os.ReadFile(path)
		if err != nil || json.Unmarshal(raw, &rec) != nil {
			continue
		}
		if s.now().After(rec.ExpiresAt) {
			if err := os.Remove(path); err == nil {
				removed++
			}
		}
	}
	return removed
}

func (s *FileStore) entryPaths() []string {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+fileExt))
	if err != nil {
		s.log.Error("Failed to scan cache directory", logger.ErrorField(err))
		return nil
	}
	return matches
}

// writeFileAtomic writes through a temp file and rename so a concurrent
// reader never observes a partial record.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cache-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
