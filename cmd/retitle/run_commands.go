package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"retitle/internal/config"
	"retitle/internal/logging"
	"retitle/internal/process"
	"retitle/internal/step"
)

type stepFlags struct {
	name       string
	id         int64
	returnPath string
}

func (f *stepFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "step", "", "Name of the workflow step running the plugin")
	cmd.Flags().Int64Var(&f.id, "step-id", 0, "Identifier of the workflow step")
	_ = cmd.MarkFlagRequired("step")
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags stepFlags

	cmd := &cobra.Command{
		Use:   "run <process-id>",
		Short: "Run the title update step for a process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *process.Store) error {
				p, err := loadProcess(cmd, store, args[0])
				if err != nil {
					return err
				}
				lock, err := process.AcquireLock(cfg.LockDir(), p.ID)
				if err != nil {
					return err
				}
				defer lock.Release()

				logger, err := ctx.logger(cfg)
				if err != nil {
					return err
				}
				plugin := step.New(newHost(cfg, store, logger, cmd.ErrOrStderr()))
				st := &process.Step{ID: flags.id, Title: flags.name, Process: p}
				if err := plugin.Initialize(st, flags.returnPath); err != nil {
					return err
				}

				oldTitle := p.Title
				outcome := plugin.Run(cmd.Context())
				out := cmd.OutOrStdout()
				if outcome == step.OutcomeError {
					return fmt.Errorf("process %d: step %q ended with outcome %s", p.ID, flags.name, outcome)
				}
				fmt.Fprintf(out, "Process %d: %s -> %s\n", p.ID, displayTitle(oldTitle), displayTitle(p.Title))
				fmt.Fprintf(out, "Outcome: %s (next: %s)\n", outcome, plugin.Finish())
				logger.Debug("run command finished",
					logging.Int64(logging.FieldProcessID, p.ID),
					logging.String("outcome", outcome.String()),
				)
				return nil
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&flags.returnPath, "return-path", "", "Host page to return to after the step")
	return cmd
}

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var flags stepFlags

	cmd := &cobra.Command{
		Use:   "preview <process-id>",
		Short: "Show the title the step would compose without applying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *process.Store) error {
				p, err := loadProcess(cmd, store, args[0])
				if err != nil {
					return err
				}
				plugin := step.New(newHost(cfg, store, logging.NewNop(), cmd.ErrOrStderr()))
				if err := plugin.Initialize(&process.Step{ID: flags.id, Title: flags.name, Process: p}, ""); err != nil {
					return err
				}
				composed, err := plugin.Preview(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(composed.Parts) > 0 {
					list := newListing(true, "#", "Type", "Input", "Value")
					for i, part := range composed.Parts {
						list.add(strconv.Itoa(i+1), part.Kind.String(), part.Input, part.Value)
					}
					fmt.Fprintln(out, list)
				}
				fmt.Fprintf(out, "Current title: %s\n", displayTitle(composed.OldTitle))
				fmt.Fprintf(out, "Raw title:     %s\n", displayTitle(composed.Raw))
				fmt.Fprintf(out, "New title:     %s\n", displayTitle(composed.NewTitle))
				fmt.Fprintf(out, "Regex check:   %s\n", yesNo(composed.RegexCheck))
				return nil
			})
		},
	}

	flags.bind(cmd)
	return cmd
}

func displayTitle(value string) string {
	if value == "" {
		return `""`
	}
	return value
}
