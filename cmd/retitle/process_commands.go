package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"retitle/internal/config"
	"retitle/internal/process"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Manage process records",
	}

	processCmd.AddCommand(newProcessAddCommand(ctx))
	processCmd.AddCommand(newProcessListCommand(ctx))
	processCmd.AddCommand(newProcessShowCommand(ctx))
	processCmd.AddCommand(newProcessLogCommand(ctx))
	processCmd.AddCommand(newProcessSwapCommand(ctx))

	return processCmd
}

func newProcessAddCommand(ctx *commandContext) *cobra.Command {
	var titleFlag, projectFlag, rulesetFlag string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a process record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *process.Store) error {
				p, err := store.Create(cmd.Context(), titleFlag, projectFlag, rulesetFlag)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created process %d (%s)\n", p.ID, displayTitle(p.Title))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&titleFlag, "title", "", "Process title")
	cmd.Flags().StringVar(&projectFlag, "project", "", "Project the process belongs to")
	cmd.Flags().StringVar(&rulesetFlag, "ruleset", "", "Ruleset preferences name")
	_ = cmd.MarkFlagRequired("ruleset")
	return cmd
}

func newProcessListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List process records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *process.Store) error {
				processes, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(processes) == 0 {
					fmt.Fprintln(out, "No processes")
					return nil
				}
				list := newListing(true, "ID", "Title", "Project", "Ruleset", "Swapped", "Updated")
				for _, p := range processes {
					list.add(
						strconv.FormatInt(p.ID, 10),
						p.Title,
						p.Project,
						p.Ruleset,
						yesNo(p.SwappedOut),
						formatTime(p.UpdatedAt),
					)
				}
				fmt.Fprintln(out, list)
				return nil
			})
		},
	}
}

func newProcessShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <process-id>",
		Short: "Show a process record and its directories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *process.Store) error {
				p, err := loadProcess(cmd, store, args[0])
				if err != nil {
					return err
				}
				paths := process.Paths{MetadataDir: cfg.Paths.MetadataDir}
				images := "(swapped out)"
				if dir, err := paths.ImagesDir(p); err == nil {
					images = dir
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:         %d\n", p.ID)
				fmt.Fprintf(out, "Title:      %s\n", displayTitle(p.Title))
				fmt.Fprintf(out, "Project:    %s\n", p.Project)
				fmt.Fprintf(out, "Ruleset:    %s\n", p.Ruleset)
				fmt.Fprintf(out, "Swapped:    %s\n", yesNo(p.SwappedOut))
				fmt.Fprintf(out, "Images dir: %s\n", images)
				fmt.Fprintf(out, "Created:    %s\n", formatTime(p.CreatedAt))
				fmt.Fprintf(out, "Updated:    %s\n", formatTime(p.UpdatedAt))
				return nil
			})
		},
	}
}

func newProcessLogCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "log <process-id>",
		Short: "Show the process log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *process.Store) error {
				p, err := loadProcess(cmd, store, args[0])
				if err != nil {
					return err
				}
				entries, err := store.Log(cmd.Context(), p.ID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No log entries")
					return nil
				}
				list := newListing(false, "Time", "Level", "Message")
				for _, entry := range entries {
					list.add(formatTime(entry.CreatedAt), strings.ToUpper(string(entry.Level)), entry.Message)
				}
				fmt.Fprintln(out, list)
				return nil
			})
		},
	}
}

func newProcessSwapCommand(ctx *commandContext) *cobra.Command {
	var swapIn bool

	cmd := &cobra.Command{
		Use:   "swap <process-id>",
		Short: "Mark process data as swapped out (or back in with --in)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *process.Store) error {
				p, err := loadProcess(cmd, store, args[0])
				if err != nil {
					return err
				}
				if err := store.SetSwapped(cmd.Context(), p.ID, !swapIn); err != nil {
					return err
				}
				state := "out"
				if swapIn {
					state = "in"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Process %d swapped %s\n", p.ID, state)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&swapIn, "in", false, "Swap the process data back in")
	return cmd
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
