package shell

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/IonicArgon/appli-archiver/internal/domain"
	"github.com/IonicArgon/appli-archiver/internal/store"
)

type editAnswer struct {
	fields func(domain.Fields) domain.Fields
	next   domain.Status
}

// scripted replays canned answers. It quits once commands run out.
type scripted struct {
	cmds     []Command
	ids      []int
	newJobs  []domain.Fields
	edits    []editAnswer
	confirms []bool

	cmdErr       error
	editCalls    int
	confirmCalls int
}

func (p *scripted) Command() (Command, error) {
	if p.cmdErr != nil && len(p.cmds) == 0 {
		return 0, p.cmdErr
	}
	if len(p.cmds) == 0 {
		return CmdQuit, nil
	}
	c := p.cmds[0]
	p.cmds = p.cmds[1:]
	return c, nil
}

func (p *scripted) JobID() (int, error) {
	id := p.ids[0]
	p.ids = p.ids[1:]
	return id, nil
}

func (p *scripted) NewJob() (domain.Fields, error) {
	f := p.newJobs[0]
	p.newJobs = p.newJobs[1:]
	return f, nil
}

func (p *scripted) EditJob(current domain.Job) (domain.Fields, domain.Status, error) {
	p.editCalls++
	e := p.edits[0]
	p.edits = p.edits[1:]
	f := current.Fields()
	if e.fields != nil {
		f = e.fields(f)
	}
	return f, e.next, nil
}

func (p *scripted) ConfirmDelete(domain.Job) (bool, error) {
	p.confirmCalls++
	ok := p.confirms[0]
	p.confirms = p.confirms[1:]
	return ok, nil
}

type recorder struct {
	lists   [][]domain.Job
	shown   []domain.Job
	infos   []string
	errs    []string
	goodbye int
}

func (r *recorder) Jobs(jobs []domain.Job) { r.lists = append(r.lists, jobs) }
func (r *recorder) Job(j domain.Job)       { r.shown = append(r.shown, j) }
func (r *recorder) Info(msg string)        { r.infos = append(r.infos, msg) }
func (r *recorder) Error(msg string)       { r.errs = append(r.errs, msg) }
func (r *recorder) Goodbye()               { r.goodbye++ }

var fixedNow = time.Date(2025, 3, 4, 18, 30, 0, 0, time.UTC)

type harness struct {
	fs    afero.Fs
	store *store.Store
	out   *recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fs := afero.NewMemMapFs()
	layout := store.DefaultLayout("/data/db")
	_, err := store.Init(fs, layout)
	require.NoError(t, err)
	st, err := store.Open(fs, layout)
	require.NoError(t, err)
	return &harness{fs: fs, store: st, out: &recorder{}}
}

func (h *harness) run(t *testing.T, p Prompter) error {
	t.Helper()
	sh := New(h.store, p, h.out, zaptest.NewLogger(t), WithClock(func() time.Time { return fixedNow }))
	return sh.Run(context.Background())
}

func (h *harness) seed(t *testing.T, companies ...string) {
	t.Helper()
	for _, c := range companies {
		j, err := domain.New(0, domain.Fields{DateApplied: "2024-01-15", Company: c, Position: "Engineer"}, domain.StatusApplied)
		require.NoError(t, err)
		_, err = h.store.Add(j)
		require.NoError(t, err)
	}
}

func TestAddBlankDateMeansToday(t *testing.T) {
	h := newHarness(t)
	p := &scripted{
		cmds: []Command{CmdAdd, CmdAdd, CmdList},
		newJobs: []domain.Fields{
			{Company: "Acme", Position: "Engineer"},
			{DateApplied: "2024-01-15", Company: "Globex", Position: "SRE"},
		},
	}

	require.NoError(t, h.run(t, p))

	jobs := h.store.List()
	require.Len(t, jobs, 2)
	assert.Equal(t, "2025-03-04", jobs[0].Date())
	assert.Equal(t, "2024-01-15", jobs[1].Date())
	assert.Equal(t, []domain.Status{domain.StatusApplied}, jobs[0].StatusList)
	require.Len(t, h.out.lists, 1)
	assert.Len(t, h.out.lists[0], 2)
	assert.Equal(t, 1, h.out.goodbye)
	assert.Empty(t, h.out.errs)
}

func TestAddTidiesFields(t *testing.T) {
	h := newHarness(t)
	p := &scripted{
		cmds: []Command{CmdAdd},
		newJobs: []domain.Fields{{
			DateApplied: " 2024-01-15 ",
			Company:     "  Acme   Corp",
			Position:    "Engineer",
			JobBoard:    "https://Jobs.Example.com/7?utm_source=feed#top",
		}},
	}

	require.NoError(t, h.run(t, p))

	got, err := h.store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Company)
	assert.Equal(t, "https://jobs.example.com/7", got.JobBoard)
	assert.Equal(t, "2024-01-15", got.Date())
}

func TestEditAppendsStatuses(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "Acme")
	p := &scripted{
		cmds: []Command{CmdEdit, CmdEdit, CmdEdit},
		ids:  []int{1, 1, 1},
		edits: []editAnswer{
			{next: domain.StatusInterview},
			{next: domain.StatusOffer, fields: func(f domain.Fields) domain.Fields {
				f.Position = "Senior Engineer"
				return f
			}},
			{next: domain.NoChange},
		},
	}

	require.NoError(t, h.run(t, p))

	got, err := h.store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "applied>interview>offer", got.History())
	assert.Equal(t, "Senior Engineer", got.Position)
	assert.Equal(t, "2024-01-15", got.Date())
}

func TestFailedLookupAbortsDependentCommand(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "Acme")
	p := &scripted{
		cmds: []Command{CmdShow, CmdEdit, CmdDelete},
		ids:  []int{5, 5, 5},
	}

	require.NoError(t, h.run(t, p))

	assert.Equal(t, []string{"Job not found", "Job not found", "Job not found"}, h.out.errs)
	assert.Zero(t, p.editCalls)
	assert.Zero(t, p.confirmCalls)
	assert.Empty(t, h.out.shown)
	assert.Len(t, h.store.List(), 1)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "Acme", "Globex", "Initech")
	p := &scripted{
		cmds:     []Command{CmdDelete, CmdDelete, CmdShow},
		ids:      []int{2, 2, 2},
		confirms: []bool{false, true},
	}

	require.NoError(t, h.run(t, p))

	jobs := h.store.List()
	require.Len(t, jobs, 2)
	assert.Equal(t, []string{"Acme", "Initech"}, []string{jobs[0].Company, jobs[1].Company})
	require.Len(t, h.out.shown, 1)
	assert.Equal(t, "Initech", h.out.shown[0].Company)
	assert.Contains(t, h.out.infos, "Delete cancelled")
}

func TestDeleteOnlyJobThenList(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "Acme")
	p := &scripted{
		cmds:     []Command{CmdDelete, CmdList, CmdShow},
		ids:      []int{1, 1},
		confirms: []bool{true},
	}

	require.NoError(t, h.run(t, p))

	require.Len(t, h.out.lists, 1)
	assert.Empty(t, h.out.lists[0])
	assert.Equal(t, []string{"Job not found"}, h.out.errs)
}

func TestEditCopiesChangedAttachment(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "Acme")
	require.NoError(t, afero.WriteFile(h.fs, "/home/me/cv.pdf", []byte("cv"), 0o644))
	p := &scripted{
		cmds: []Command{CmdEdit},
		ids:  []int{1},
		edits: []editAnswer{{next: domain.NoChange, fields: func(f domain.Fields) domain.Fields {
			f.Resume = "/home/me/cv.pdf"
			return f
		}}},
	}

	require.NoError(t, h.run(t, p))

	got, err := h.store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "/data/db/resumes/cv.pdf", got.Resume)
	ok, err := afero.Exists(h.fs, got.Resume)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAddWithUnreadableAttachmentIsReported(t *testing.T) {
	h := newHarness(t)
	p := &scripted{
		cmds:    []Command{CmdAdd},
		newJobs: []domain.Fields{{Company: "Acme", Position: "Engineer", Resume: "/gone.pdf"}},
	}

	require.NoError(t, h.run(t, p))

	assert.Len(t, h.out.errs, 1)
	assert.Empty(t, h.store.List())
}

type brokenStore struct{ JobStore }

func (brokenStore) List() []domain.Job { return nil }
func (brokenStore) Add(domain.Job) (domain.Job, error) {
	return domain.Job{}, &store.IOError{Op: "rewrite", Path: "data.csv", Err: io.ErrShortWrite}
}

func TestRewriteFailureEndsSession(t *testing.T) {
	p := &scripted{
		cmds:    []Command{CmdAdd, CmdList},
		newJobs: []domain.Fields{{Company: "Acme", Position: "Engineer"}},
	}
	out := &recorder{}
	sh := New(brokenStore{}, p, out, zaptest.NewLogger(t))

	err := sh.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.Empty(t, out.lists, "loop must stop before the next command")
}

func TestInterruptQuitsCleanly(t *testing.T) {
	h := newHarness(t)
	p := &scripted{cmdErr: ErrInterrupted}

	require.NoError(t, h.run(t, p))
	assert.Equal(t, 1, h.out.goodbye)
}

func TestInputFailureEndsSession(t *testing.T) {
	h := newHarness(t)
	p := &scripted{cmdErr: io.EOF}

	err := h.run(t, p)
	assert.ErrorIs(t, err, io.EOF)
}

func TestCancelledContextStops(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sh := New(h.store, &scripted{cmds: []Command{CmdList}}, h.out, zaptest.NewLogger(t))

	require.NoError(t, sh.Run(ctx))
	assert.Empty(t, h.out.lists)
}
