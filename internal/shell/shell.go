// Package shell runs the interactive menu loop on top of the job store.
package shell

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/IonicArgon/appli-archiver/internal/domain"
	"github.com/IonicArgon/appli-archiver/internal/store"
)

type Command int

const (
	CmdList Command = iota + 1
	CmdShow
	CmdAdd
	CmdEdit
	CmdDelete
	CmdQuit
)

// Menu is the fixed command list in display order.
var Menu = []struct {
	Label string
	Cmd   Command
}{
	{"List all jobs", CmdList},
	{"List job by id", CmdShow},
	{"Add a job", CmdAdd},
	{"Edit a job", CmdEdit},
	{"Delete a job", CmdDelete},
	{"Quit", CmdQuit},
}

// ErrInterrupted is returned by a Prompter when the user aborts with Ctrl-C.
var ErrInterrupted = errors.New("interrupted")

type JobStore interface {
	List() []domain.Job
	Get(id int) (domain.Job, error)
	Add(job domain.Job) (domain.Job, error)
	Update(job domain.Job) error
	Delete(id int) error
	AddFile(id int, src string, kind store.Kind) error
}

// Prompter collects input. Implementations re-prompt on invalid values and
// only return validated answers.
type Prompter interface {
	Command() (Command, error)
	JobID() (int, error)
	NewJob() (domain.Fields, error)
	// EditJob returns the edited fields and the status to append, or
	// domain.NoChange.
	EditJob(current domain.Job) (domain.Fields, domain.Status, error)
	ConfirmDelete(job domain.Job) (bool, error)
}

type Renderer interface {
	Jobs(jobs []domain.Job)
	Job(job domain.Job)
	Info(msg string)
	Error(msg string)
	Goodbye()
}

type Shell struct {
	store  JobStore
	prompt Prompter
	out    Renderer
	log    *zap.Logger
	now    func() time.Time
}

type Option func(*Shell)

// WithClock overrides the source of "today" for blank dates.
func WithClock(now func() time.Time) Option { return func(s *Shell) { s.now = now } }

func New(st JobStore, p Prompter, r Renderer, log *zap.Logger, opts ...Option) *Shell {
	s := &Shell{store: st, prompt: p, out: r, log: log.Named("shell"), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// inputError marks a failure to read from the user; the session cannot go on.
type inputError struct{ err error }

func (e inputError) Error() string { return "read input: " + e.err.Error() }
func (e inputError) Unwrap() error { return e.err }

func input(err error) error {
	if err == nil {
		return nil
	}
	return inputError{err}
}

// Run loops until Quit, an interrupt, or an error that leaves the table
// untrustworthy. Recoverable errors are shown and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			s.out.Goodbye()
			return nil
		}

		cmd, err := s.prompt.Command()
		if err != nil {
			if errors.Is(err, ErrInterrupted) {
				s.out.Goodbye()
				return nil
			}
			return input(err)
		}
		if cmd == CmdQuit {
			s.out.Goodbye()
			return nil
		}

		err = s.Dispatch(cmd)
		if err == nil {
			continue
		}

		var inErr inputError
		switch {
		case errors.Is(err, ErrInterrupted):
			s.out.Goodbye()
			return nil
		case errors.As(err, &inErr), store.IsFatal(err):
			s.log.Error("session ended", zap.Error(err))
			return err
		default:
			s.log.Warn("command failed", zap.Int("command", int(cmd)), zap.Error(err))
			s.out.Error(describe(err))
		}
	}
}

// Dispatch runs one menu command.
func (s *Shell) Dispatch(cmd Command) error {
	switch cmd {
	case CmdList:
		s.out.Jobs(s.store.List())
		return nil
	case CmdShow:
		return s.show()
	case CmdAdd:
		return s.add()
	case CmdEdit:
		return s.edit()
	case CmdDelete:
		return s.remove()
	case CmdQuit:
		return nil
	default:
		return fmt.Errorf("unknown command %d", cmd)
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "Job not found"
	case errors.Is(err, store.ErrHistoryRewrite):
		return "Status history can only be extended"
	default:
		return err.Error()
	}
}

// lookup prompts for an id and fetches the job. Callers stop on any error so
// nothing runs against a job that does not exist.
func (s *Shell) lookup() (domain.Job, error) {
	id, err := s.prompt.JobID()
	if err != nil {
		return domain.Job{}, input(err)
	}
	return s.store.Get(id)
}

func (s *Shell) show() error {
	job, err := s.lookup()
	if err != nil {
		return err
	}
	s.out.Job(job)
	return nil
}

func (s *Shell) add() error {
	f, err := s.prompt.NewJob()
	if err != nil {
		return input(err)
	}
	f = f.Normalize()
	f.DateApplied = domain.ResolveDate(f.DateApplied, s.now())

	job, err := domain.New(0, f, domain.StatusApplied)
	if err != nil {
		return err
	}
	added, err := s.store.Add(job)
	if err != nil {
		return err
	}
	s.out.Info(fmt.Sprintf("Added job %d", added.ID))
	return nil
}

func (s *Shell) edit() error {
	job, err := s.lookup()
	if err != nil {
		return err
	}

	f, next, err := s.prompt.EditJob(job)
	if err != nil {
		return input(err)
	}
	f = f.Normalize()
	f.DateApplied = domain.ResolveDate(f.DateApplied, s.now())

	// Attachments go through AddFile so stored paths stay managed copies.
	newResume, newCover := f.Resume, f.CoverLetter
	f.Resume, f.CoverLetter = job.Resume, job.CoverLetter

	updated, err := job.Edit(f, next)
	if err != nil {
		return err
	}
	if err := s.store.Update(updated); err != nil {
		return err
	}

	for _, a := range []struct {
		kind      store.Kind
		from, cur string
	}{
		{store.KindResume, newResume, job.Resume},
		{store.KindCoverLetter, newCover, job.CoverLetter},
	} {
		if a.from == "" || samePath(a.from, a.cur) {
			continue
		}
		if err := s.store.AddFile(job.ID, a.from, a.kind); err != nil {
			return err
		}
	}
	s.out.Info(fmt.Sprintf("Updated job %d", job.ID))
	return nil
}

func (s *Shell) remove() error {
	job, err := s.lookup()
	if err != nil {
		return err
	}
	ok, err := s.prompt.ConfirmDelete(job)
	if err != nil {
		return input(err)
	}
	if !ok {
		s.out.Info("Delete cancelled")
		return nil
	}
	if err := s.store.Delete(job.ID); err != nil {
		return err
	}
	s.out.Info(fmt.Sprintf("Deleted job %d", job.ID))
	return nil
}

func samePath(a, b string) bool {
	return a != "" && b != "" && filepath.Clean(a) == filepath.Clean(b)
}
