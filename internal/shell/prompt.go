package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/IonicArgon/appli-archiver/internal/domain"
)

// SurveyPrompter asks questions on a terminal.
type SurveyPrompter struct {
	opts []survey.AskOpt
}

func NewSurveyPrompter(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) *SurveyPrompter {
	return &SurveyPrompter{opts: []survey.AskOpt{survey.WithStdio(in, out, errOut)}}
}

func (p *SurveyPrompter) ask(qs []*survey.Question, resp any) error {
	err := survey.Ask(qs, resp, p.opts...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrInterrupted
	}
	return err
}

func (p *SurveyPrompter) askOne(prompt survey.Prompt, resp any, opts ...survey.AskOpt) error {
	err := survey.AskOne(prompt, resp, append(opts, p.opts...)...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrInterrupted
	}
	return err
}

func (p *SurveyPrompter) Command() (Command, error) {
	labels := make([]string, len(Menu))
	for i, m := range Menu {
		labels[i] = m.Label
	}
	var idx int
	if err := p.askOne(&survey.Select{
		Message:  "What would you like to do?",
		Options:  labels,
		PageSize: len(labels),
	}, &idx); err != nil {
		return 0, err
	}
	return Menu[idx].Cmd, nil
}

func (p *SurveyPrompter) JobID() (int, error) {
	var raw string
	if err := p.askOne(&survey.Input{Message: "Enter the job id"}, &raw,
		survey.WithValidator(validateID)); err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

type jobAnswers struct {
	Date        string `survey:"date"`
	Company     string `survey:"company"`
	Position    string `survey:"position"`
	JobBoard    string `survey:"jobBoard"`
	Website     string `survey:"website"`
	Resume      string `survey:"resume"`
	CoverLetter string `survey:"coverLetter"`
	Status      string `survey:"status"`
}

func (a jobAnswers) fields() domain.Fields {
	return domain.Fields{
		DateApplied: a.Date,
		Company:     a.Company,
		Position:    a.Position,
		JobBoard:    a.JobBoard,
		Website:     a.Website,
		Resume:      a.Resume,
		CoverLetter: a.CoverLetter,
	}
}

func fieldQuestions(def domain.Fields) []*survey.Question {
	return []*survey.Question{
		{
			Name:     "date",
			Prompt:   &survey.Input{Message: "Enter the date applied (YYYY-MM-DD), leave blank for today's date", Default: def.DateApplied},
			Validate: validateDate,
		},
		{
			Name:     "company",
			Prompt:   &survey.Input{Message: "Enter the company name", Default: def.Company},
			Validate: survey.Required,
		},
		{
			Name:     "position",
			Prompt:   &survey.Input{Message: "Enter the position name", Default: def.Position},
			Validate: survey.Required,
		},
		{
			Name:   "jobBoard",
			Prompt: &survey.Input{Message: "Enter the link to the job posting", Default: def.JobBoard},
		},
		{
			Name:   "website",
			Prompt: &survey.Input{Message: "Enter the website you applied on", Default: def.Website},
		},
		{
			Name:     "resume",
			Prompt:   &survey.Input{Message: "Enter the path to your resume", Default: def.Resume},
			Validate: validateFile,
		},
		{
			Name:     "coverLetter",
			Prompt:   &survey.Input{Message: "Enter the path to your cover letter", Default: def.CoverLetter},
			Validate: validateFile,
		},
	}
}

func (p *SurveyPrompter) NewJob() (domain.Fields, error) {
	var a jobAnswers
	if err := p.ask(fieldQuestions(domain.Fields{}), &a); err != nil {
		return domain.Fields{}, err
	}
	return a.fields(), nil
}

func (p *SurveyPrompter) EditJob(current domain.Job) (domain.Fields, domain.Status, error) {
	options, byLabel := statusChoices()
	qs := append(fieldQuestions(current.Fields()), &survey.Question{
		Name: "status",
		Prompt: &survey.Select{
			Message:  "Enter most recent status",
			Options:  options,
			Default:  domain.NoChange.Label(),
			PageSize: len(options),
		},
	})

	var a jobAnswers
	if err := p.ask(qs, &a); err != nil {
		return domain.Fields{}, "", err
	}
	next, ok := byLabel[a.Status]
	if !ok {
		return domain.Fields{}, "", fmt.Errorf("unknown status choice %q", a.Status)
	}
	return a.fields(), next, nil
}

// statusChoices lists the edit menu labels, every status then "No change",
// with the reverse mapping.
func statusChoices() ([]string, map[string]domain.Status) {
	all := append(append([]domain.Status(nil), domain.Statuses...), domain.NoChange)
	options := make([]string, 0, len(all))
	byLabel := make(map[string]domain.Status, len(all))
	for _, s := range all {
		options = append(options, s.Label())
		byLabel[s.Label()] = s
	}
	return options, byLabel
}

func (p *SurveyPrompter) ConfirmDelete(job domain.Job) (bool, error) {
	ok := false
	err := p.askOne(&survey.Confirm{
		Message: fmt.Sprintf("Are you sure you want to delete job %d (%s, %s)?", job.ID, job.Company, job.Position),
		Default: false,
	}, &ok)
	return ok, err
}

func validateDate(ans any) error {
	s, _ := ans.(string)
	if err := domain.ValidateDateInput(s); err != nil {
		return errors.New("please enter a valid date in the format YYYY-MM-DD")
	}
	return nil
}

func validateID(ans any) error {
	s, _ := ans.(string)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("please enter a positive whole number")
	}
	return nil
}

// validateFile accepts blank or an existing regular file.
func validateFile(ans any) error {
	s, _ := ans.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a file", s)
	}
	return nil
}
