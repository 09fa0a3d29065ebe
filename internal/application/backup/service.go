// Package backup copies the application's records to a second bucket and back.
// The local store stays the source of truth; a snapshot is a point-in-time copy.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/rezkam/focusboard/internal/domain"
	"github.com/rezkam/focusboard/internal/storage"
)

// SnapshotPrefix starts every snapshot key.
const SnapshotPrefix = "focusboard-"

const (
	snapshotTimeLayout = "20060102T150405.000Z"
	// Names written before millisecond stamps were added.
	legacySnapshotTimeLayout = "20060102T150405Z"
)

var (
	// ErrSnapshotNotFound indicates the named snapshot does not exist.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrSnapshotExists indicates a snapshot with the same name is already stored.
	ErrSnapshotExists = errors.New("snapshot already exists")
)

// Snapshot is the document written for one backup.
type Snapshot struct {
	TakenAt time.Time                  `json:"takenAt"`
	Records map[string]json.RawMessage `json:"records"`
}

// Info describes a stored snapshot.
type Info struct {
	Name    string
	Size    int64
	TakenAt time.Time
}

// Service pushes and restores snapshots of a fixed set of keys.
type Service struct {
	source storage.KV
	target storage.Bucket
	clock  domain.Clock
	keys   []string
}

// NewService creates a backup service copying keys between source and target.
func NewService(source storage.KV, target storage.Bucket, clock domain.Clock, keys []string) *Service {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Service{
		source: source,
		target: target,
		clock:  clock,
		keys:   slices.Clone(keys),
	}
}

// Push writes a snapshot of every present key to the target.
func (s *Service) Push(ctx context.Context) (Info, error) {
	now := s.clock.Now()
	snap := Snapshot{TakenAt: now, Records: make(map[string]json.RawMessage, len(s.keys))}

	for _, key := range s.keys {
		data, err := s.source.Get(ctx, key)
		if errors.Is(err, storage.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return Info{}, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !json.Valid(data) {
			return Info{}, fmt.Errorf("%w: %s", domain.ErrCorruptRecord, key)
		}
		snap.Records[key] = json.RawMessage(data)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return Info{}, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	name := SnapshotPrefix + now.UTC().Format(snapshotTimeLayout)
	switch _, err := s.target.Get(ctx, name); {
	case err == nil:
		return Info{}, fmt.Errorf("%w: %s", ErrSnapshotExists, name)
	case !errors.Is(err, storage.ErrKeyNotFound):
		return Info{}, fmt.Errorf("failed to check snapshot %s: %w", name, err)
	}
	if err := s.target.Set(ctx, name, data); err != nil {
		return Info{}, fmt.Errorf("failed to upload snapshot: %w", err)
	}

	slog.InfoContext(ctx, "snapshot pushed", "snapshot", name, "records", len(snap.Records), "bytes", len(data))
	return Info{Name: name, Size: int64(len(data)), TakenAt: now}, nil
}

// List returns the stored snapshots, newest first.
func (s *Service) List(ctx context.Context) ([]Info, error) {
	entries, err := s.target.List(ctx, SnapshotPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	infos := make([]Info, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, Info{Name: e.Key, Size: e.Size, TakenAt: snapshotTime(e)})
	}
	slices.SortFunc(infos, func(a, b Info) int { return b.TakenAt.Compare(a.TakenAt) })
	return infos, nil
}

func snapshotTime(e storage.Entry) time.Time {
	stamp := strings.TrimPrefix(e.Key, SnapshotPrefix)
	for _, layout := range []string{snapshotTimeLayout, legacySnapshotTimeLayout} {
		if t, err := time.Parse(layout, stamp); err == nil {
			return t
		}
	}
	return e.Updated
}

// Restore replaces the local records with the snapshot's. Keys absent from
// the snapshot are deleted locally. An empty name restores the newest snapshot.
func (s *Service) Restore(ctx context.Context, name string) (Info, error) {
	if name == "" {
		infos, err := s.List(ctx)
		if err != nil {
			return Info{}, err
		}
		if len(infos) == 0 {
			return Info{}, ErrSnapshotNotFound
		}
		name = infos[0].Name
	}

	data, err := s.target.Get(ctx, name)
	if errors.Is(err, storage.ErrKeyNotFound) || errors.Is(err, storage.ErrInvalidKey) {
		return Info{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
	}
	if err != nil {
		return Info{}, fmt.Errorf("failed to download snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Info{}, fmt.Errorf("%w: snapshot %s: %w", domain.ErrCorruptRecord, name, err)
	}

	for _, key := range s.keys {
		record, ok := snap.Records[key]
		if !ok {
			if err := s.source.Delete(ctx, key); err != nil {
				return Info{}, fmt.Errorf("failed to clear %s: %w", key, err)
			}
			continue
		}
		if err := s.source.Set(ctx, key, record); err != nil {
			return Info{}, fmt.Errorf("failed to restore %s: %w", key, err)
		}
	}

	slog.InfoContext(ctx, "snapshot restored", "snapshot", name, "records", len(snap.Records))
	return Info{Name: name, Size: int64(len(data)), TakenAt: snap.TakenAt}, nil
}
