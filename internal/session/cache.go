package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	natomic "github.com/natefinch/atomic"

	"mangatag/internal/logging"
	"mangatag/internal/tagsync"
)

// ErrUnknownToken reports a missing or expired snapshot.
var ErrUnknownToken = errors.New("unknown or expired session token")

// Snapshot is the state captured by one scan.
type Snapshot struct {
	Dir       string           `json:"dir"`
	Archives  []string         `json:"archives"`
	Baseline  tagsync.Baseline `json:"baseline"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

func (s Snapshot) expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type record struct {
	Token    string   `json:"token"`
	Snapshot Snapshot `json:"snapshot"`
}

// Cache stores snapshots by token.
type Cache struct {
	path   string
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]Snapshot
}

// NewCache returns a cache persisted at path, or an in-memory cache when path
// is empty.
func NewCache(path string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cache{
		path:    strings.TrimSpace(path),
		logger:  logging.NewComponentLogger(logger, "session"),
		now:     time.Now,
		entries: make(map[string]Snapshot),
	}
}

// NewToken returns a fresh random token.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Put stores snap under token for ttl. A zero CreatedAt is set to now.
func (c *Cache) Put(token string, snap Snapshot, ttl time.Duration) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("session token cannot be empty")
	}
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = c.now()
	}
	snap.ExpiresAt = snap.CreatedAt.Add(ttl)
	return c.update(func(entries map[string]Snapshot) {
		entries[token] = snap
	})
}

// Get returns the snapshot for token unless it is missing or expired.
func (c *Cache) Get(token string) (Snapshot, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Snapshot{}, false
	}
	var (
		snap  Snapshot
		found bool
	)
	err := c.view(func(entries map[string]Snapshot) {
		snap, found = entries[token]
	})
	if err != nil {
		logging.WarnWithContext(c.logger, "session cache unreadable", "session_load_failed",
			logging.String("path", c.path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "scan snapshots are unavailable"),
		)
		return Snapshot{}, false
	}
	if !found || snap.expired(c.now()) {
		return Snapshot{}, false
	}
	return snap, true
}

// Replace updates an existing, unexpired snapshot in place keeping its
// expiry. It is used after a rename to publish the new archive names.
func (c *Cache) Replace(token string, fn func(*Snapshot)) error {
	token = strings.TrimSpace(token)
	var missing bool
	err := c.update(func(entries map[string]Snapshot) {
		snap, ok := entries[token]
		if !ok || snap.expired(c.now()) {
			missing = true
			return
		}
		fn(&snap)
		entries[token] = snap
	})
	if err != nil {
		return err
	}
	if missing {
		return ErrUnknownToken
	}
	return nil
}

// Remove drops token. Removing an unknown token is not an error.
func (c *Cache) Remove(token string) error {
	return c.update(func(entries map[string]Snapshot) {
		delete(entries, strings.TrimSpace(token))
	})
}

// SweepExpired drops every expired snapshot and returns how many went.
func (c *Cache) SweepExpired() (int, error) {
	removed := 0
	err := c.update(func(entries map[string]Snapshot) {
		now := c.now()
		for token, snap := range entries {
			if snap.expired(now) {
				delete(entries, token)
				removed++
			}
		}
	})
	if removed > 0 {
		c.logger.Debug("swept expired sessions", logging.Int("removed", removed))
	}
	return removed, err
}

// Count returns the number of stored snapshots, expired ones included.
func (c *Cache) Count() int {
	n := 0
	_ = c.view(func(entries map[string]Snapshot) { n = len(entries) })
	return n
}

func (c *Cache) view(fn func(map[string]Snapshot)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.path == "" {
		fn(c.entries)
		return nil
	}
	lock := flock.New(c.path + ".lock")
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	if err := lock.RLock(); err != nil {
		return fmt.Errorf("lock session cache: %w", err)
	}
	defer lock.Unlock()
	entries, err := c.load()
	if err != nil {
		return err
	}
	fn(entries)
	return nil
}

func (c *Cache) update(fn func(map[string]Snapshot)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.path == "" {
		fn(c.entries)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	lock := flock.New(c.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock session cache: %w", err)
	}
	defer lock.Unlock()
	entries, err := c.load()
	if err != nil {
		logging.WarnWithContext(c.logger, "session cache reset", "session_load_failed",
			logging.String("path", c.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the file is rewritten from scratch"),
		)
		entries = make(map[string]Snapshot)
	}
	fn(entries)
	return c.save(entries)
}

func (c *Cache) load() (map[string]Snapshot, error) {
	entries := make(map[string]Snapshot)
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entries, nil
		}
		return nil, fmt.Errorf("read session cache: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse session cache: %w", err)
	}
	for _, r := range records {
		if strings.TrimSpace(r.Token) != "" {
			entries[r.Token] = r.Snapshot
		}
	}
	return entries, nil
}

func (c *Cache) save(entries map[string]Snapshot) error {
	records := make([]record, 0, len(entries))
	for token, snap := range entries {
		records = append(records, record{Token: token, Snapshot: snap})
	}
	slices.SortFunc(records, func(a, b record) int {
		return b.Snapshot.CreatedAt.Compare(a.Snapshot.CreatedAt)
	})
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session cache: %w", err)
	}
	if err := natomic.WriteFile(c.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write session cache: %w", err)
	}
	return nil
}
