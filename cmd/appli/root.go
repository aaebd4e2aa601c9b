package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/IonicArgon/appli-archiver/internal/config"
	"github.com/IonicArgon/appli-archiver/internal/logging"
	"github.com/IonicArgon/appli-archiver/internal/shell"
	"github.com/IonicArgon/appli-archiver/internal/store"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	home string
	cfg  config.Config
	log  *zap.Logger
	fs   afero.Fs
}

func newRootCmd() *cobra.Command {
	a := &app{fs: afero.NewOsFs()}

	root := &cobra.Command{
		Use:           "appli",
		Short:         "Track job applications, their status history and documents",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(true)
			if err != nil {
				return err
			}
			defer st.Close()

			sh := shell.New(st,
				shell.NewSurveyPrompter(os.Stdin, os.Stdout, os.Stderr),
				a.renderer(os.Stdout),
				a.log,
			)
			return sh.Run(cmd.Context())
		},
	}

	home := os.Getenv(config.EnvHome)
	if home == "" {
		home = "."
	}
	root.PersistentFlags().StringVar(&a.home, "home", home, "directory holding config.yml, .env and the data directory (env "+config.EnvHome+")")

	root.AddCommand(
		newInitCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newExportCmd(a),
	)
	return root
}

func (a *app) setup() error {
	if err := os.MkdirAll(a.home, 0o755); err != nil {
		return err
	}
	cfg, res, err := config.Bootstrap(a.home)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", a.home, err)
	}
	a.cfg = cfg

	log, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	a.log = log
	for _, w := range res.Warnings {
		a.log.Warn("config", zap.String("warning", w))
	}
	return nil
}

func (a *app) layout() store.Layout {
	return store.Layout{
		Dir:            a.cfg.Data.Dir,
		Table:          a.cfg.Data.Table,
		ResumeDir:      a.cfg.Data.ResumeDir,
		CoverLetterDir: a.cfg.Data.CoverLetterDir,
	}
}

func (a *app) openStore(lock bool) (*store.Store, error) {
	opts := []store.Option{store.WithLogger(a.log)}
	if lock {
		opts = append(opts, store.WithLock())
	}
	st, err := store.Open(a.fs, a.layout(), opts...)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w (run `appli init` to create it)", err)
	}
	return st, err
}

func (a *app) renderer(w io.Writer) *shell.Terminal {
	return shell.NewTerminal(w, a.cfg.Display.Color)
}
