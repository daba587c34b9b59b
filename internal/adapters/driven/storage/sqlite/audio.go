package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

const audioDBName = "audio.db"

// Ensure AudioStore implements the interface.
var _ driven.AudioCache = (*AudioStore)(nil)

// AudioStore keeps synthesized speech in its own database, audio.db.
//
// The database is opened on first use. When it cannot be opened, reads
// report absence and the next call tries again, so a broken audio store
// never blocks reading text.
type AudioStore struct {
	mu      sync.Mutex
	dataDir string
	db      *sql.DB
}

// NewAudioStore creates an audio store in dataDir. No I/O happens until first use.
// If dataDir is empty, defaults to ~/.smartegy/data.
func NewAudioStore(dataDir string) (*AudioStore, error) {
	if dataDir == "" {
		var err error
		if dataDir, err = DefaultDataDir(); err != nil {
			return nil, err
		}
	}
	return &AudioStore{dataDir: dataDir}, nil
}

// handle returns the open database, opening it if needed.
func (s *AudioStore) handle() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, _, err := openDB(s.dataDir, audioDBName)
	if err != nil {
		return nil, err
	}
	sub, err := fs.Sub(migrations.AudioFS, "audio")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("reading audio migrations: %w", err)
	}
	if err := migrate(db, sub); err != nil {
		db.Close()
		return nil, fmt.Errorf("running audio migrations: %w", err)
	}

	s.db = db
	return db, nil
}

// Get returns the cached payload for a chapter.
func (s *AudioStore) Get(ctx context.Context, key domain.ChapterKey) (*domain.AudioPayload, error) {
	db, err := s.handle()
	if err != nil {
		logger.Warn("audio store unavailable, treating %s as uncached: %v", key, err)
		return nil, domain.ErrNotFound
	}

	var (
		compressed []byte
		p          = domain.AudioPayload{Key: key}
	)
	err = db.QueryRowContext(ctx,
		`SELECT data, fingerprint, created_at FROM audio WHERE key = ?`, key.String()).
		Scan(&compressed, &p.Fingerprint, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading audio %s: %w", key, err)
	}

	p.Data, err = decompress(compressed)
	if err != nil {
		logger.Warn("discarding corrupt audio for %s: %v", key, err)
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// Put stores a payload, replacing any previous payload for the chapter.
func (s *AudioStore) Put(ctx context.Context, p domain.AudioPayload) error {
	db, err := s.handle()
	if err != nil {
		return fmt.Errorf("opening audio store: %w", err)
	}

	compressed, err := compress(p.Data)
	if err != nil {
		return fmt.Errorf("compressing audio %s: %w", p.Key, err)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO audio (key, work_id, chapter, data, fingerprint, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			fingerprint = excluded.fingerprint,
			created_at = excluded.created_at
	`, p.Key.String(), p.Key.WorkID, p.Key.Chapter, compressed, p.Fingerprint, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("writing audio %s: %w", p.Key, err)
	}
	return nil
}

// ClearAll removes every payload. If audio.db was never created this is a no-op.
func (s *AudioStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	opened := s.db != nil
	s.mu.Unlock()

	if !opened {
		if _, err := os.Stat(filepath.Join(s.dataDir, audioDBName)); err != nil {
			return nil
		}
	}

	db, err := s.handle()
	if err != nil {
		return fmt.Errorf("opening audio store: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM audio`); err != nil {
		return fmt.Errorf("clearing audio: %w", err)
	}
	return nil
}

// Close closes the database if it was opened.
func (s *AudioStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
