package savegame

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/darkcave/internal/session"
	"github.com/samdwyer/darkcave/internal/telemetry"
)

// DefaultExt is the file extension of save files.
const DefaultExt = ".sav"

var (
	// ErrSaveNotFound is returned when a save identifier has no file.
	ErrSaveNotFound = errors.New("save not found")
	// ErrInvalidName is returned for identifiers that cannot be file names.
	ErrInvalidName = errors.New("invalid save name")
)

// Entry describes one save file on disk.
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Store reads and writes save files in a single directory, one file per
// save name. Writes replace files atomically.
type Store struct {
	dir     string
	ext     string
	codec   *Codec
	catalog *Catalog
}

// NewStore creates a store rooted at dir. The directory is created lazily on
// the first save.
func NewStore(dir, ext string, codec *Codec) (*Store, error) {
	if ext == "" {
		ext = DefaultExt
	}
	catalog, err := NewCatalog(os.DirFS(dir), ext)
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir, ext: ext, codec: codec, catalog: catalog}, nil
}

// Dir returns the directory holding the saves.
func (s *Store) Dir() string { return s.dir }

// List returns the identifiers of all saves in directory order.
func (s *Store) List() []string {
	return s.catalog.List()
}

// Path returns the file path for a save name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+s.ext)
}

// Describe returns file details for a save name.
func (s *Store) Describe(name string) (Entry, error) {
	if err := checkName(name); err != nil {
		return Entry{}, err
	}
	info, err := os.Stat(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return Entry{}, fmt.Errorf("%w: %s", ErrSaveNotFound, name)
	}
	if err != nil {
		return Entry{}, err
	}
	return Entry{Name: name, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Save encodes sess and writes it under name, replacing any previous save of
// that name. Readers see either the old file or the complete new one.
func (s *Store) Save(ctx context.Context, name string, sess *session.Session) error {
	_, span := telemetry.Tracer("savegame").Start(ctx, "savegame.save")
	defer span.End()
	span.SetAttributes(attribute.String("save.name", name))

	if err := checkName(name); err != nil {
		return telemetry.Fail(span, err)
	}
	data, err := s.codec.Encode(sess)
	if err != nil {
		return telemetry.Fail(span, err)
	}
	span.SetAttributes(attribute.Int("save.bytes", len(data)))

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return telemetry.Fail(span, fmt.Errorf("create save directory: %w", err))
	}
	return telemetry.Fail(span, writeAtomic(s.dir, s.Path(name), data))
}

// Load reads and decodes the save called name.
func (s *Store) Load(ctx context.Context, name string) (*session.Session, error) {
	_, span := telemetry.Tracer("savegame").Start(ctx, "savegame.load")
	defer span.End()
	span.SetAttributes(attribute.String("save.name", name))

	if err := checkName(name); err != nil {
		return nil, telemetry.Fail(span, err)
	}
	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, telemetry.Fail(span, fmt.Errorf("%w: %s", ErrSaveNotFound, name))
	}
	if err != nil {
		return nil, telemetry.Fail(span, fmt.Errorf("read save %s: %w", name, err))
	}

	sess, err := s.codec.Decode(data)
	if err != nil {
		return nil, telemetry.Fail(span, err)
	}
	return sess, nil
}

// writeAtomic writes data to a temp file in dir and renames it over path.
func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".save-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp save: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write save: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("sync save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close save: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace save: %w", err)
	}
	return nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
