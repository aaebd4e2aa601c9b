package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Kind selects which managed directory and job field an attachment uses.
type Kind string

const (
	KindResume      Kind = "resume"
	KindCoverLetter Kind = "coverLetter"
)

// AddFile copies src into the managed directory for kind, keeping its base
// name, points the job's field at the copy and rewrites the table.
// An existing managed file with the same name is overwritten.
func (s *Store) AddFile(id int, src string, kind Kind) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("add %s to %d: %w", kind, id, ErrNotFound)
	}
	dir, err := s.layout.dirFor(kind)
	if err != nil {
		return fmt.Errorf("add %s to %d: %w", kind, id, err)
	}

	dst, err := s.copyIn(src, dir)
	if err != nil {
		return err
	}

	job := s.jobs[i].Clone()
	switch kind {
	case KindResume:
		job.Resume = dst
	case KindCoverLetter:
		job.CoverLetter = dst
	}
	s.log.Info("attachment stored", zap.Int("id", id), zap.String("kind", string(kind)), zap.String("path", dst))
	return s.Update(job)
}

// copyIn writes to a temp name and renames it into place, so dst only ever
// exists as a complete copy.
func (s *Store) copyIn(src, dir string) (string, error) {
	in, err := s.fs.Open(src)
	if err != nil {
		return "", &IOError{Op: opCopy, Path: src, Err: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", &IOError{Op: opCopy, Path: src, Err: err}
	}
	if info.IsDir() {
		return "", &IOError{Op: opCopy, Path: src, Err: errors.New("is a directory")}
	}

	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", &IOError{Op: opCopy, Path: dir, Err: err}
	}
	dst := filepath.Join(dir, filepath.Base(src))
	tmp := dst + ".part"

	out, err := s.fs.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", &IOError{Op: opCopy, Path: tmp, Err: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = s.fs.Remove(tmp)
		return "", &IOError{Op: opCopy, Path: tmp, Err: err}
	}
	if err := out.Close(); err != nil {
		_ = s.fs.Remove(tmp)
		return "", &IOError{Op: opCopy, Path: tmp, Err: err}
	}
	if err := s.fs.Rename(tmp, dst); err != nil {
		_ = s.fs.Remove(tmp)
		return "", &IOError{Op: opCopy, Path: dst, Err: err}
	}
	return dst, nil
}

// removeAttachment deletes a managed file unless a job still in the list
// points at it. A file that is already gone is logged and ignored. gone
// reports whether path no longer names a file.
func (s *Store) removeAttachment(path string) (gone bool, err error) {
	if path == "" {
		return true, nil
	}
	if s.referenced(path) {
		s.log.Info("attachment kept, still referenced", zap.String("path", path))
		return false, nil
	}
	err = s.fs.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Warn("attachment already missing", zap.String("path", path))
		return true, nil
	}
	if err != nil {
		return false, &IOError{Op: opRemove, Path: path, Err: err}
	}
	return true, nil
}

func (s *Store) referenced(path string) bool {
	clean := filepath.Clean(path)
	for _, j := range s.jobs {
		if (j.Resume != "" && filepath.Clean(j.Resume) == clean) ||
			(j.CoverLetter != "" && filepath.Clean(j.CoverLetter) == clean) {
			return true
		}
	}
	return false
}
