package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/spf13/afero"

	"github.com/IonicArgon/appli-archiver/internal/domain"
)

// Header is the exact first row of the jobs table.
var Header = []string{
	"id", "dateApplied", "company", "position", "jobBoard",
	"website", "resume", "coverLetter", "statusList",
}

// jobRow mirrors one CSV line; its csv tags match Header. Everything stays a
// string so that conversion errors surface through domain parsing with a line
// number.
type jobRow struct {
	ID          string `csv:"id"`
	DateApplied string `csv:"dateApplied"`
	Company     string `csv:"company"`
	Position    string `csv:"position"`
	JobBoard    string `csv:"jobBoard"`
	Website     string `csv:"website"`
	Resume      string `csv:"resume"`
	CoverLetter string `csv:"coverLetter"`
	StatusList  string `csv:"statusList"`
}

func toRow(j domain.Job) jobRow {
	return jobRow{
		ID:          strconv.Itoa(j.ID),
		DateApplied: j.Date(),
		Company:     j.Company,
		Position:    j.Position,
		JobBoard:    j.JobBoard,
		Website:     j.Website,
		Resume:      j.Resume,
		CoverLetter: j.CoverLetter,
		StatusList:  j.History(),
	}
}

func fromRow(r jobRow) (domain.Job, error) {
	id, err := strconv.Atoi(r.ID)
	if err != nil || id <= 0 {
		return domain.Job{}, fmt.Errorf("invalid id %q", r.ID)
	}
	return domain.FromHistory(id, domain.Fields{
		DateApplied: r.DateApplied,
		Company:     r.Company,
		Position:    r.Position,
		JobBoard:    r.JobBoard,
		Website:     r.Website,
		Resume:      r.Resume,
		CoverLetter: r.CoverLetter,
	}, r.StatusList)
}

// readTable loads every row or fails. Rows must carry ids 1..n in order, so
// the next id is always count+1.
func readTable(fs afero.Fs, path string) ([]domain.Job, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &IOError{Op: opLoad, Path: path, Err: err}
	}

	header, err := csv.NewReader(bytes.NewReader(b)).Read()
	if err != nil {
		return nil, &ParseError{Path: path, Line: 1, Err: fmt.Errorf("read header: %w", err)}
	}
	if !slices.Equal(header, Header) {
		return nil, &ParseError{Path: path, Line: 1, Err: fmt.Errorf("unexpected header %q", header)}
	}

	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = len(Header)
	var rows []jobRow
	if err := gocsv.UnmarshalCSV(r, &rows); err != nil {
		pErr := &ParseError{Path: path, Err: err}
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			pErr.Line = csvErr.Line
		}
		return nil, pErr
	}

	jobs := make([]domain.Job, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		j, err := fromRow(row)
		if err != nil {
			return nil, &ParseError{Path: path, Line: line, Err: err}
		}
		if j.ID != i+1 {
			return nil, &ParseError{Path: path, Line: line, Err: fmt.Errorf("id %d out of sequence, want %d", j.ID, i+1)}
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// writeTable replaces the table with jobs. Rows go to a sibling temp file that
// is renamed over the table once closed, so readers never see a partial table.
func writeTable(fs afero.Fs, path string, jobs []domain.Job) (err error) {
	rows := make([]jobRow, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, toRow(j))
	}

	tmp := path + ".tmp"
	f, err := fs.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return &IOError{Op: opRewrite, Path: tmp, Err: err}
	}
	defer func() {
		if err != nil {
			_ = fs.Remove(tmp)
		}
	}()

	if err := gocsv.Marshal(rows, f); err != nil {
		_ = f.Close()
		return &IOError{Op: opRewrite, Path: tmp, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: opRewrite, Path: tmp, Err: err}
	}
	if err := fs.Rename(tmp, path); err != nil {
		return &IOError{Op: opRewrite, Path: path, Err: err}
	}
	return nil
}
