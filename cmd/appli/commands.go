package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/IonicArgon/appli-archiver/internal/export"
	"github.com/IonicArgon/appli-archiver/internal/store"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config file and an empty jobs table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := store.Init(a.fs, a.layout())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if created {
				fmt.Fprintf(out, "Created %s\n", a.layout().TablePath())
			} else {
				fmt.Fprintf(out, "%s already exists\n", a.layout().TablePath())
			}
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every job and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(false)
			if err != nil {
				return err
			}
			defer st.Close()
			a.renderer(cmd.OutOrStdout()).Jobs(st.List())
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one job with its status history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[0])
			}
			st, err := a.openStore(false)
			if err != nil {
				return err
			}
			defer st.Close()

			job, err := st.Get(id)
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).Job(job)
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a SQLite snapshot of the jobs table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(false)
			if err != nil {
				return err
			}
			defer st.Close()

			path := out
			if path == "" {
				path = filepath.Join(a.home, "appli.db")
			}
			jobs := st.List()
			counts, err := export.ToSQLite(cmd.Context(), path, jobs, a.log)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Exported %d jobs to %s\n", len(jobs), path)
			for _, c := range counts {
				fmt.Fprintf(w, "  %-10s %d\n", c.Status.Label(), c.Count)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "snapshot file (default <home>/appli.db)")
	return cmd
}
