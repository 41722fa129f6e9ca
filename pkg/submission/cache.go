package submission

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"studentz/pkg/client"
)

const (
	// MaxCachedMembers caps the offline list; older entries fall off the end.
	MaxCachedMembers = 50

	CacheFileName = "sb_members_v1.json"
)

// LocalCache keeps offline member registrations newest first. With an empty
// Path it lives in memory only.
type LocalCache struct {
	Path string

	mu  sync.Mutex
	mem []client.Member
}

func NewLocalCache(path string) *LocalCache {
	return &LocalCache{Path: path}
}

// DefaultCachePath is ~/.studentz/sb_members_v1.json.
func DefaultCachePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".studentz", CacheFileName), nil
}

// Save puts m at the front and trims the list to MaxCachedMembers.
func (c *LocalCache) Save(m client.Member) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := c.load()
	if err != nil {
		return err
	}
	list = append([]client.Member{m}, list...)
	if len(list) > MaxCachedMembers {
		list = list[:MaxCachedMembers]
	}
	return c.store(list)
}

func (c *LocalCache) List() ([]client.Member, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// Delete removes every entry with memberID and reports whether any matched.
func (c *LocalCache) Delete(memberID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := c.load()
	if err != nil {
		return false, err
	}
	kept := list[:0]
	for _, m := range list {
		if m.MemberID != memberID {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(list) {
		return false, nil
	}
	return true, c.store(kept)
}

func (c *LocalCache) load() ([]client.Member, error) {
	if c.Path == "" {
		out := make([]client.Member, len(c.mem))
		copy(out, c.mem)
		return out, nil
	}

	raw, err := os.ReadFile(c.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return []client.Member{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read local cache: %w", err)
	}
	var list []client.Member
	if err := json.Unmarshal(raw, &list); err != nil {
		// A corrupt file reads as empty, the next Save rewrites it.
		return []client.Member{}, nil
	}
	return list, nil
}

func (c *LocalCache) store(list []client.Member) error {
	if c.Path == "" {
		c.mem = append(c.mem[:0], list...)
		return nil
	}

	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".sb_members-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), c.Path); err != nil {
		return fmt.Errorf("replace local cache: %w", err)
	}
	return nil
}
