package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	logLevels   = []string{"debug", "info", "warn", "error"}
	colorModes  = []string{"auto", "always", "never"}
	errNotValid = errors.New("config validation failed")
)

type Validation struct {
	Errors   []string
	Warnings []string
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Err folds all errors into one, or nil.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("%w:\n- %s", errNotValid, strings.Join(v.Errors, "\n- "))
}

func Validate(cfg Config) error {
	_, res := NormalizeAndValidate(cfg)
	return res.Err()
}

// NormalizeAndValidate returns a trimmed, lower-cased copy and what is wrong
// with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.Data.Dir = strings.TrimSpace(out.Data.Dir)
	out.Data.Table = strings.TrimSpace(out.Data.Table)
	out.Data.ResumeDir = strings.TrimSpace(out.Data.ResumeDir)
	out.Data.CoverLetterDir = strings.TrimSpace(out.Data.CoverLetterDir)
	out.Log.Level = strings.ToLower(strings.TrimSpace(out.Log.Level))
	out.Log.File = strings.TrimSpace(out.Log.File)
	out.Display.Color = strings.ToLower(strings.TrimSpace(out.Display.Color))

	if out.Data.Dir == "" {
		res.addErr("data.dir is required")
	}
	if out.Data.Table == "" {
		res.addErr("data.table is required")
	} else if !strings.EqualFold(filepath.Ext(out.Data.Table), ".csv") {
		res.addWarn("data.table %q does not end in .csv", out.Data.Table)
	}

	// attachment dirs live inside data.dir
	checkSubdir := func(name, v string) {
		switch {
		case v == "":
			res.addErr("%s is required", name)
		case filepath.IsAbs(v) || strings.Contains(v, ".."):
			res.addErr("%s must be a relative path inside data.dir", name)
		}
	}
	checkSubdir("data.resume_dir", out.Data.ResumeDir)
	checkSubdir("data.cover_letter_dir", out.Data.CoverLetterDir)
	if out.Data.ResumeDir != "" && filepath.Clean(out.Data.ResumeDir) == filepath.Clean(out.Data.CoverLetterDir) {
		res.addErr("data.resume_dir and data.cover_letter_dir must differ")
	}

	if !oneOf(out.Log.Level, logLevels) {
		res.addErr("log.level must be one of %s", strings.Join(logLevels, ", "))
	}
	if out.Log.File == "" {
		res.addWarn("log.file is empty; logging is disabled")
	}
	if !oneOf(out.Display.Color, colorModes) {
		res.addErr("display.color must be one of %s", strings.Join(colorModes, ", "))
	}

	return out, res
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
