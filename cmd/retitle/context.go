package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"retitle/internal/config"
	"retitle/internal/logging"
	"retitle/internal/metadata"
	"retitle/internal/pluginconfig"
	"retitle/internal/process"
	"retitle/internal/step"
	"retitle/internal/title"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// withStore opens the process store for the duration of fn.
func (c *commandContext) withStore(fn func(*config.Config, *process.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := process.Open(cfg)
	if err != nil {
		return fmt.Errorf("open process store: %w", err)
	}
	defer store.Close()
	return fn(cfg, store)
}

func (c *commandContext) logger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

func newHost(cfg *config.Config, store *process.Store, logger *slog.Logger, errOut io.Writer) step.Host {
	paths := process.Paths{MetadataDir: cfg.Paths.MetadataDir}
	colorize := shouldColorize(errOut)
	return step.Host{
		ReplacementRegex: cfg.Title.ReplacementRegex,
		Configs:          pluginconfig.Loader{Dir: cfg.Paths.PluginConfigDir},
		Store:            store,
		Paths:            paths,
		Metadata:         metadata.Reader{Paths: paths},
		Rulesets:         metadata.RulesetLoader{Dir: cfg.Paths.RulesetsDir},
		Messenger: step.MessengerFunc(func(message string, err error) {
			line := renderStatusLine("retitle", statusError, fmt.Sprintf("%s %v", message, err), colorize)
			fmt.Fprintln(errOut, line)
		}),
		Logger:  logger,
		Sources: title.DefaultSources(),
	}
}

// loadProcess resolves a process id argument against the store.
func loadProcess(cmd *cobra.Command, store *process.Store, arg string) (*process.Process, error) {
	id, err := parseProcessID(arg)
	if err != nil {
		return nil, err
	}
	p, err := store.GetByID(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("process %d not found", id)
	}
	return p, nil
}

func parseProcessID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid process id %q", arg)
	}
	return id, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
