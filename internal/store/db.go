package store

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/IonicArgon/appli-archiver/internal/domain"
)

// Layout names the table and managed attachment directories under Dir.
type Layout struct {
	Dir            string
	Table          string
	ResumeDir      string
	CoverLetterDir string
}

func DefaultLayout(dir string) Layout {
	return Layout{
		Dir:            dir,
		Table:          "data.csv",
		ResumeDir:      "resumes",
		CoverLetterDir: "coverLetters",
	}
}

func (l Layout) TablePath() string { return filepath.Join(l.Dir, l.Table) }

func (l Layout) dirFor(kind Kind) (string, error) {
	switch kind {
	case KindResume:
		return filepath.Join(l.Dir, l.ResumeDir), nil
	case KindCoverLetter:
		return filepath.Join(l.Dir, l.CoverLetterDir), nil
	default:
		return "", ErrUnknownKind
	}
}

// Store owns every job record and the files behind them. The in-memory list is
// authoritative for the session; each mutation rewrites the whole table.
type Store struct {
	fs     afero.Fs
	layout Layout
	log    *zap.Logger
	lock   *Lock
	jobs   []domain.Job
}

type Option func(*options)

type options struct {
	log  *zap.Logger
	lock bool
}

func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }

// WithLock takes the data directory lock before loading. Only meaningful on
// an OS-backed filesystem.
func WithLock() Option { return func(o *options) { o.lock = true } }

// Open loads the table at layout.TablePath. A missing or malformed table is an
// error; nothing is skipped.
func Open(fs afero.Fs, layout Layout, opts ...Option) (*Store, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{fs: fs, layout: layout, log: o.log.Named("store")}
	if o.lock {
		l, err := AcquireLock(layout.Dir)
		if err != nil {
			return nil, err
		}
		s.lock = l
	}

	jobs, err := readTable(fs, layout.TablePath())
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.jobs = jobs
	s.log.Info("table loaded", zap.String("path", layout.TablePath()), zap.Int("jobs", len(jobs)))
	return s, nil
}

// Init creates the data and attachment directories and a header-only table if
// none exists. It reports whether a table was created.
func Init(fs afero.Fs, layout Layout) (created bool, err error) {
	for _, d := range []string{
		layout.Dir,
		filepath.Join(layout.Dir, layout.ResumeDir),
		filepath.Join(layout.Dir, layout.CoverLetterDir),
	} {
		if err := fs.MkdirAll(d, 0o755); err != nil {
			return false, &IOError{Op: opInit, Path: d, Err: err}
		}
	}

	_, err = fs.Stat(layout.TablePath())
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, &IOError{Op: opInit, Path: layout.TablePath(), Err: err}
	}
	if err := writeTable(fs, layout.TablePath(), nil); err != nil {
		return false, err
	}
	return true, nil
}

// Close releases the directory lock, if held.
func (s *Store) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	err := s.lock.Release()
	s.lock = nil
	return err
}

func (s *Store) flush() error {
	if err := writeTable(s.fs, s.layout.TablePath(), s.jobs); err != nil {
		s.log.Error("table rewrite failed", zap.Error(err))
		return err
	}
	return nil
}
