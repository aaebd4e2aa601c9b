package store

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/IonicArgon/appli-archiver/internal/domain"
)

// List returns every job in ascending id order.
func (s *Store) List() []domain.Job {
	out := make([]domain.Job, len(s.jobs))
	for i, j := range s.jobs {
		out[i] = j.Clone()
	}
	return out
}

func (s *Store) Get(id int) (domain.Job, error) {
	i := s.index(id)
	if i < 0 {
		return domain.Job{}, fmt.Errorf("get %d: %w", id, ErrNotFound)
	}
	return s.jobs[i].Clone(), nil
}

func (s *Store) index(id int) int {
	for i, j := range s.jobs {
		if j.ID == id {
			return i
		}
	}
	return -1
}

// Add appends job under the next id and copies its attachments into the
// managed directories. If any copy fails nothing of the add survives.
func (s *Store) Add(job domain.Job) (domain.Job, error) {
	if len(job.StatusList) == 0 {
		return domain.Job{}, domain.ErrEmptyHistory
	}

	job = job.Clone()
	job.ID = len(s.jobs) + 1
	sources := []struct {
		kind Kind
		path string
	}{
		{KindResume, job.Resume},
		{KindCoverLetter, job.CoverLetter},
	}
	job.Resume, job.CoverLetter = "", ""
	s.jobs = append(s.jobs, job)

	for _, src := range sources {
		if src.path == "" {
			continue
		}
		if err := s.AddFile(job.ID, src.path, src.kind); err != nil {
			return domain.Job{}, s.rollbackAdd(job.ID, err)
		}
	}

	if err := s.flush(); err != nil {
		return domain.Job{}, err
	}
	s.log.Info("job added", zap.Int("id", job.ID), zap.String("company", job.Company))
	return s.Get(job.ID)
}

// rollbackAdd drops the half-added job and any attachment copies it made.
func (s *Store) rollbackAdd(id int, cause error) error {
	i := s.index(id)
	if i < 0 {
		return cause
	}
	job := s.jobs[i]
	s.jobs = append(s.jobs[:i:i], s.jobs[i+1:]...)

	for _, p := range []string{job.Resume, job.CoverLetter} {
		if _, err := s.removeAttachment(p); err != nil {
			s.log.Warn("rollback left attachment behind", zap.String("path", p), zap.Error(err))
		}
	}
	s.log.Warn("add rolled back", zap.Int("id", id), zap.Error(cause))
	return errors.Join(cause, s.flush())
}

// Update replaces the job with the same id. The status history may only grow.
// Attachment files are left alone.
func (s *Store) Update(job domain.Job) error {
	i := s.index(job.ID)
	if i < 0 {
		return fmt.Errorf("update %d: %w", job.ID, ErrNotFound)
	}
	if len(job.StatusList) == 0 {
		return domain.ErrEmptyHistory
	}
	if !domain.Extends(s.jobs[i].StatusList, job.StatusList) {
		return fmt.Errorf("update %d: %w", job.ID, ErrHistoryRewrite)
	}

	s.jobs[i] = job.Clone()
	if err := s.flush(); err != nil {
		return err
	}
	s.log.Info("job updated", zap.Int("id", job.ID), zap.String("status", string(job.Current())))
	return nil
}

// Delete removes the job and its attachments, then renumbers the remaining
// jobs 1..n in their current order.
func (s *Store) Delete(id int) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("delete %d: %w", id, ErrNotFound)
	}
	job := s.jobs[i]

	// Detach first so the reference check only sees other jobs.
	prev := s.jobs
	s.jobs = append(s.jobs[:i:i], s.jobs[i+1:]...)
	for _, field := range []*string{&job.Resume, &job.CoverLetter} {
		gone, err := s.removeAttachment(*field)
		if err != nil {
			// The job stays, minus any file already removed.
			prev[i] = job
			s.jobs = prev
			s.log.Warn("delete aborted", zap.Int("id", id), zap.Error(err))
			return errors.Join(err, s.flush())
		}
		if gone {
			*field = ""
		}
	}

	for n := range s.jobs {
		s.jobs[n].ID = n + 1
	}
	if err := s.flush(); err != nil {
		return err
	}
	s.log.Info("job deleted", zap.Int("id", id), zap.Int("remaining", len(s.jobs)))
	return nil
}
