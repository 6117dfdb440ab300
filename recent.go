package autograph

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultRecentLimit is the number of items kept by the recent tray.
const DefaultRecentLimit = 10

// RecentItem is a previously exported signature.
type RecentItem struct {
	ID      string    `json:"id"`
	DataURI string    `json:"data_uri"`
	Created time.Time `json:"created"`
}

// Thumbnail decodes the item and scales it to fit the given box.
func (it RecentItem) Thumbnail(width, height int) (*image.NRGBA, error) {
	img, err := DecodePNGDataURI(it.DataURI)
	if err != nil {
		return nil, err
	}
	return imaging.Fit(img, width, height, imaging.Lanczos), nil
}

// RecentStore keeps the most recent exports, newest first.
type RecentStore struct {
	mu    sync.Mutex
	path  string
	limit int
	items []RecentItem
}

// DefaultRecentPath returns the location of the tray in the user's config directory.
func DefaultRecentPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "autograph", "recent.json"), nil
}

// NewRecentStore creates an empty tray persisted at path. An empty path keeps the tray in memory.
func NewRecentStore(path string, limit int) *RecentStore {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &RecentStore{path: path, limit: limit}
}

// Add puts the data URI on top of the tray, evicting the oldest items over the limit.
func (rs *RecentStore) Add(uri string) RecentItem {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	item := RecentItem{
		ID:      uuid.NewString(),
		DataURI: uri,
		Created: time.Now().UTC(),
	}
	rs.items = append([]RecentItem{item}, rs.items...)
	if len(rs.items) > rs.limit {
		rs.items = rs.items[:rs.limit]
	}
	return item
}

// Items returns a copy of the tray content, newest first.
func (rs *RecentStore) Items() []RecentItem {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	items := make([]RecentItem, len(rs.items))
	copy(items, rs.items)
	return items
}

// Load replaces the tray content with the persisted one. A missing file leaves the tray empty.
func (rs *RecentStore) Load() error {
	if rs.path == "" {
		return nil
	}
	data, err := os.ReadFile(rs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "could not read the recent items")
	}
	var items []RecentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, "could not decode the recent items")
	}
	if len(items) > rs.limit {
		items = items[:rs.limit]
	}

	rs.mu.Lock()
	rs.items = items
	rs.mu.Unlock()
	return nil
}

// Save persists the tray content.
func (rs *RecentStore) Save() error {
	if rs.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(rs.Items(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(rs.path), 0o755); err != nil {
		return errors.Wrap(err, "could not create the recent items directory")
	}
	if err := os.WriteFile(rs.path, data, 0o644); err != nil {
		return errors.Wrap(err, "could not write the recent items")
	}
	return nil
}
