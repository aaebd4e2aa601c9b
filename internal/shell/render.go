package shell

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/IonicArgon/appli-archiver/internal/domain"
)

// Terminal renders jobs as tables and trees, coloured when enabled.
type Terminal struct {
	w     io.Writer
	color bool
}

// NewTerminal picks colouring from mode: "always", "never", or "auto"
// (colour only when w is a terminal and NO_COLOR is unset).
func NewTerminal(w io.Writer, mode string) *Terminal {
	return &Terminal{w: w, color: wantColor(w, mode)}
}

func wantColor(w io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if _, off := os.LookupEnv("NO_COLOR"); off {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (t *Terminal) paint(s string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if t.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

func (t *Terminal) status(s domain.Status) string {
	switch s.Tone() {
	case domain.TonePositive:
		return t.paint(s.Label(), color.FgGreen)
	case domain.TonePending:
		return t.paint(s.Label(), color.FgYellow)
	case domain.ToneOffer:
		return t.paint(s.Label(), color.FgBlue)
	case domain.ToneClosed:
		return t.paint(s.Label(), color.FgRed)
	default:
		return s.Label()
	}
}

func (t *Terminal) Jobs(jobs []domain.Job) {
	fmt.Fprintln(t.w, t.paint("Job List", color.Bold))
	if len(jobs) == 0 {
		fmt.Fprint(t.w, "No jobs recorded yet.\n\n")
		return
	}

	tw := tablewriter.NewWriter(t.w)
	tw.SetHeader([]string{"ID", "Date Applied", "Company", "Position", "Job Board", "Website", "Resume", "Cover Letter", "Latest Status"})
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetBorder(false)
	tw.SetColumnSeparator(" ")
	tw.SetHeaderLine(true)
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
	})

	for _, j := range jobs {
		tw.Append([]string{
			t.paint(strconv.Itoa(j.ID), color.FgCyan),
			t.paint(j.Date(), color.FgCyan),
			j.Company,
			j.Position,
			j.JobBoard,
			j.Website,
			j.Resume,
			j.CoverLetter,
			t.status(j.Current()),
		})
	}
	tw.Render()
	fmt.Fprintln(t.w)
}

func (t *Terminal) Job(j domain.Job) {
	title := fmt.Sprintf(" Job Details for ID %d ", j.ID)
	rule := strings.Repeat("─", 20)
	fmt.Fprintln(t.w, rule+t.paint(title, color.Bold)+rule)

	label := func(s string) string { return t.paint(s+":", color.Bold, color.FgCyan) }
	fmt.Fprintln(t.w, label("Date Applied"), j.Date())
	fmt.Fprintln(t.w, label("Company"), j.Company)
	fmt.Fprintln(t.w, label("Position"), j.Position)
	fmt.Fprintln(t.w, label("Job Board"), j.JobBoard)
	fmt.Fprintln(t.w, label("Website"), j.Website)
	fmt.Fprintln(t.w, label("Resume"), j.Resume)
	fmt.Fprintln(t.w, label("Cover Letter"), j.CoverLetter)
	fmt.Fprintln(t.w, label("Status Tree"))

	// each status is a child of the one before it
	for i, s := range j.StatusList {
		if i == 0 {
			fmt.Fprintln(t.w, t.status(s))
			continue
		}
		fmt.Fprintf(t.w, "%s└── %s\n", strings.Repeat("    ", i-1), t.status(s))
	}
	fmt.Fprintln(t.w)
}

func (t *Terminal) Info(msg string) {
	fmt.Fprintln(t.w, msg)
}

func (t *Terminal) Error(msg string) {
	fmt.Fprintf(t.w, "%s %s\n\n", t.paint("Error:", color.Bold, color.FgRed), msg)
}

func (t *Terminal) Goodbye() {
	fmt.Fprintln(t.w, "Goodbye!")
}
