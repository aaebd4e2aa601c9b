package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the on-disk and input format for DateApplied.
const DateLayout = "2006-01-02"

// HistorySep joins statuses in the persisted statusList column.
const HistorySep = ">"

var (
	ErrInvalidDate   = errors.New("date must be in the format YYYY-MM-DD")
	ErrEmptyHistory  = errors.New("status history is empty")
	ErrInvalidStatus = errors.New("unknown status")
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Fields holds the raw, user-editable values of a job application.
type Fields struct {
	DateApplied string
	Company     string
	Position    string
	JobBoard    string
	Website     string
	Resume      string
	CoverLetter string
}

// Job is one tracked application. Values are replaced, never mutated in place
// by callers outside this package.
type Job struct {
	ID          int
	DateApplied time.Time
	Company     string
	Position    string
	JobBoard    string // link to the posting
	Website     string // where the application was submitted
	Resume      string
	CoverLetter string
	StatusList  []Status
}

// New builds a fresh record whose history is exactly [status].
func New(id int, f Fields, status Status) (Job, error) {
	if !status.Valid() {
		return Job{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return build(id, f, []Status{status})
}

// FromHistory builds a record from a persisted, separator-joined history.
func FromHistory(id int, f Fields, history string) (Job, error) {
	list, err := ParseHistory(history)
	if err != nil {
		return Job{}, err
	}
	return build(id, f, list)
}

func build(id int, f Fields, list []Status) (Job, error) {
	d, err := ParseDate(f.DateApplied)
	if err != nil {
		return Job{}, err
	}
	return Job{
		ID:          id,
		DateApplied: d,
		Company:     f.Company,
		Position:    f.Position,
		JobBoard:    f.JobBoard,
		Website:     f.Website,
		Resume:      f.Resume,
		CoverLetter: f.CoverLetter,
		StatusList:  list,
	}, nil
}

// ParseDate accepts only YYYY-MM-DD calendar dates.
func ParseDate(s string) (time.Time, error) {
	if !datePattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// ValidateDateInput is the prompt-side check: blank means "today".
func ValidateDateInput(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := ParseDate(s)
	return err
}

// ResolveDate maps a blank input to today's date.
func ResolveDate(s string, now time.Time) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.Format(DateLayout)
	}
	return s
}

// ParseHistory splits a persisted history. Every token must be a known status.
func ParseHistory(s string) ([]Status, error) {
	if s == "" {
		return nil, ErrEmptyHistory
	}
	parts := strings.Split(s, HistorySep)
	out := make([]Status, 0, len(parts))
	for _, p := range parts {
		st := Status(p)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, p)
		}
		out = append(out, st)
	}
	return out, nil
}

func FormatHistory(list []Status) string {
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = string(s)
	}
	return strings.Join(parts, HistorySep)
}

func (j Job) History() string { return FormatHistory(j.StatusList) }

func (j Job) Date() string { return j.DateApplied.Format(DateLayout) }

// Current is the latest status.
func (j Job) Current() Status {
	if len(j.StatusList) == 0 {
		return ""
	}
	return j.StatusList[len(j.StatusList)-1]
}

// Fields returns the editable values, date formatted for input defaults.
func (j Job) Fields() Fields {
	return Fields{
		DateApplied: j.Date(),
		Company:     j.Company,
		Position:    j.Position,
		JobBoard:    j.JobBoard,
		Website:     j.Website,
		Resume:      j.Resume,
		CoverLetter: j.CoverLetter,
	}
}

// Clone copies the job including its history slice.
func (j Job) Clone() Job {
	j.StatusList = append([]Status(nil), j.StatusList...)
	return j
}

// WithStatus appends s to a copy of the history. No ordering rule applies.
func (j Job) WithStatus(s Status) Job {
	c := j.Clone()
	c.StatusList = append(c.StatusList, s)
	return c
}

// Edit returns a replacement carrying f and, unless next is NoChange, one more
// status. ID and history prefix are preserved.
func (j Job) Edit(f Fields, next Status) (Job, error) {
	list := append([]Status(nil), j.StatusList...)
	if next != NoChange {
		if !next.Valid() {
			return Job{}, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
		}
		list = append(list, next)
	}
	return build(j.ID, f, list)
}

// Extends reports whether next keeps every status of prev in order.
func Extends(prev, next []Status) bool {
	if len(next) < len(prev) {
		return false
	}
	for i := range prev {
		if prev[i] != next[i] {
			return false
		}
	}
	return true
}
