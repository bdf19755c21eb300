package step

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"retitle/internal/logging"
	"retitle/internal/metadata"
	"retitle/internal/pluginconfig"
	"retitle/internal/process"
	"retitle/internal/rename"
	"retitle/internal/services"
	"retitle/internal/title"
	"retitle/internal/variables"
)

const (
	// PluginTitle addresses the plugin's configuration file.
	PluginTitle = "intranda_step_updateProcessTitle"
	// PagePath is the UI page of the plugin. The plugin has no GUI, so hosts
	// never navigate there.
	PagePath = "/uii/plugin_step_updateProcessTitle.xhtml"
	// GUIType marks a plugin without user interface.
	GUIType = "none"
	// InterfaceVersion is the plugin API version.
	InterfaceVersion = 0

	errorBanner = "Error while renaming the process."
	component   = "step"
)

// Type is the host plugin category.
type Type string

// TypeStep is the category of workflow step plugins.
const TypeStep Type = "step"

// Outcome is the result of a run as seen by the workflow.
type Outcome int

const (
	OutcomeFinish Outcome = iota
	OutcomeError
)

func (o Outcome) String() string {
	if o == OutcomeFinish {
		return "finish"
	}
	return "error"
}

// Messenger shows user-facing error banners.
type Messenger interface {
	Error(message string, err error)
}

// MessengerFunc adapts a function to Messenger.
type MessengerFunc func(message string, err error)

// Error calls f.
func (f MessengerFunc) Error(message string, err error) { f(message, err) }

// ProcessStore persists process records and their logs.
type ProcessStore interface {
	Save(ctx context.Context, p *process.Process) error
	AddLog(ctx context.Context, processID int64, level process.LogLevel, message string) error
}

// MetadataReader loads a process metadata document; nil means none exists.
type MetadataReader interface {
	Read(p *process.Process) (*metadata.Document, error)
}

// RulesetLoader loads ruleset preferences by name.
type RulesetLoader interface {
	Load(name string) (*metadata.Ruleset, error)
}

// ConfigLoader resolves the plugin configuration for a project and step.
type ConfigLoader interface {
	Load(pluginTitle, project, step string) (pluginconfig.StepConfig, error)
}

// Host bundles the services a step run consumes.
type Host struct {
	ReplacementRegex string
	Configs          ConfigLoader
	Store            ProcessStore
	Paths            rename.Locator
	Metadata         MetadataReader
	Rulesets         RulesetLoader
	Messenger        Messenger
	Logger           *slog.Logger
	Sources          title.Sources
}

// Composition is a composed and sanitized title candidate.
type Composition struct {
	OldTitle   string
	NewTitle   string
	Raw        string
	Parts      []title.Part
	RegexCheck bool
}

// Plugin is one step plugin instance bound to a single step.
type Plugin struct {
	host        Host
	logger      *slog.Logger
	evaluator   *title.Evaluator
	coordinator *rename.Coordinator

	step       *process.Step
	returnPath string
	config     pluginconfig.StepConfig
}

// New creates an uninitialized plugin.
func New(host Host) *Plugin {
	logger := logging.NewComponentLogger(host.Logger, component)
	return &Plugin{
		host:        host,
		logger:      logger,
		evaluator:   title.NewEvaluator(host.Sources),
		coordinator: rename.NewCoordinator(host.Store, host.Paths, host.Logger),
		config:      pluginconfig.Defaults(),
	}
}

// Initialize binds the plugin to st and loads its configuration block. It
// fails only when the step is incomplete or the configuration is unreadable.
func (p *Plugin) Initialize(st *process.Step, returnPath string) error {
	if st == nil || st.Process == nil {
		return services.Wrap(services.ErrValidation, component, "initialize", "step has no process", nil)
	}
	p.step = st
	p.returnPath = returnPath
	cfg, err := p.host.Configs.Load(PluginTitle, st.Process.Project, st.Title)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, component, "initialize", "load plugin configuration", err)
	}
	p.config = cfg
	p.logger.Debug("plugin initialized",
		logging.Int64(logging.FieldProcessID, st.Process.ID),
		logging.String(logging.FieldStep, st.Title),
		logging.Bool("regex_check", cfg.RegexCheck),
		logging.Any("fragments", cfg.Template.Kinds()),
		logging.String("config_source", cfg.Source),
	)
	return nil
}

// Title returns the plugin title.
func (p *Plugin) Title() string { return PluginTitle }

// Type returns the plugin category.
func (p *Plugin) Type() Type { return TypeStep }

// GUIType returns "none".
func (p *Plugin) GUIType() string { return GUIType }

// PagePath returns the plugin page path.
func (p *Plugin) PagePath() string { return PagePath }

// InterfaceVersion returns the plugin API version.
func (p *Plugin) InterfaceVersion() int { return InterfaceVersion }

// Validate has nothing to check.
func (p *Plugin) Validate() []string { return nil }

// Cancel returns the navigation target after cancelling.
func (p *Plugin) Cancel() string { return "/uii" + p.returnPath }

// Finish returns the navigation target after finishing.
func (p *Plugin) Finish() string { return "/uii" + p.returnPath }

// Config returns the resolved configuration block.
func (p *Plugin) Config() pluginconfig.StepConfig { return p.config }

// Execute runs the step and reports whether it finished.
func (p *Plugin) Execute(ctx context.Context) bool {
	return p.Run(ctx) != OutcomeError
}

// Run composes the new title and commits it.
func (p *Plugin) Run(ctx context.Context) Outcome {
	if p.step == nil {
		p.logger.Error("run called before initialize",
			logging.String(logging.FieldEventType, "step_failure"),
		)
		return OutcomeError
	}
	proc := p.step.Process
	ctx = p.annotate(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, p.logger)

	logger.Info("step started",
		logging.String(logging.FieldEventType, "step_start"),
		logging.String("current_title", proc.Title),
	)

	composed, err := p.compose(ctx)
	if err != nil {
		return p.fail(ctx, logger, err)
	}
	logger.Info("title composed",
		logging.String(logging.FieldEventType, "title_composed"),
		logging.String("raw_title", composed.Raw),
		logging.String("new_title", composed.NewTitle),
		logging.Bool("regex_check", composed.RegexCheck),
	)

	result, err := p.coordinator.Rename(ctx, proc, composed.NewTitle)
	if err != nil {
		return p.fail(ctx, logger, err)
	}

	message := fmt.Sprintf("Process title changed from '%s' to '%s'.", result.OldTitle, result.NewTitle)
	if len(result.Renamed) > 0 {
		message += fmt.Sprintf(" Renamed %d director%s.", len(result.Renamed), plural(len(result.Renamed)))
	}
	if err := p.host.Store.AddLog(ctx, proc.ID, process.LogInfo, message); err != nil {
		logger.Warn("failed to write process log",
			logging.Error(err),
			logging.String(logging.FieldEventType, "process_log_failed"),
			logging.String(logging.FieldErrorHint, "check the process database"),
		)
	}
	logger.Info("step completed",
		logging.String(logging.FieldEventType, "step_complete"),
		logging.String("old_title", result.OldTitle),
		logging.String("new_title", result.NewTitle),
		logging.Int("renamed_directories", len(result.Renamed)),
	)
	return OutcomeFinish
}

// Preview composes the title without persisting it or touching the
// filesystem.
func (p *Plugin) Preview(ctx context.Context) (Composition, error) {
	if p.step == nil {
		return Composition{}, services.Wrap(services.ErrValidation, component, "preview", "plugin is not initialized", nil)
	}
	return p.compose(p.annotate(ctx, ""))
}

func (p *Plugin) compose(ctx context.Context) (Composition, error) {
	proc := p.step.Process
	out := Composition{OldTitle: proc.Title, RegexCheck: p.config.RegexCheck}

	doc, err := p.host.Metadata.Read(proc)
	if err != nil {
		marker := services.ErrMetadataRead
		if errors.Is(err, process.ErrSwappedOut) {
			marker = services.ErrStorageSwap
		}
		return out, services.Wrap(marker, component, "read metadata", fmt.Sprintf("process %d", proc.ID), err)
	}
	if doc == nil {
		logging.WithContext(ctx, p.logger).Debug("process has no metadata document")
	}
	ruleset, err := p.host.Rulesets.Load(proc.Ruleset)
	if err != nil {
		return out, services.Wrap(services.ErrPreferences, component, "load ruleset", proc.Ruleset, err)
	}

	replacer := variables.New(doc, ruleset, proc, p.step)
	evaluated, err := p.evaluator.Evaluate(p.config.Template, replacer)
	if err != nil {
		return out, services.Wrap(nil, component, "evaluate template", "", err)
	}
	out.Raw = evaluated.Raw
	out.Parts = evaluated.Parts

	sanitizer, err := title.NewSanitizer(p.host.ReplacementRegex, p.config.RegexCheck)
	if err != nil {
		return out, services.Wrap(services.ErrConfiguration, component, "sanitize title", "", err)
	}
	clean, err := sanitizer.Sanitize(evaluated.Raw)
	if err != nil {
		return out, services.Wrap(nil, component, "sanitize title", "", err)
	}
	out.NewTitle = clean
	return out, nil
}

func (p *Plugin) fail(ctx context.Context, logger *slog.Logger, err error) Outcome {
	logging.ErrorWithContext(logger, "step failed", "step_failure",
		logging.Error(err),
		logging.String(logging.FieldErrorKind, services.Kind(err)),
		logging.String(logging.FieldErrorHint, hintFor(err)),
	)
	if p.host.Messenger != nil {
		p.host.Messenger.Error(errorBanner, err)
	}
	if err := p.host.Store.AddLog(ctx, p.step.Process.ID, process.LogError, errorBanner+" "+err.Error()); err != nil {
		logger.Warn("failed to write process log",
			logging.Error(err),
			logging.String(logging.FieldEventType, "process_log_failed"),
			logging.String(logging.FieldErrorHint, "check the process database"),
		)
	}
	return OutcomeError
}

func (p *Plugin) annotate(ctx context.Context, correlationID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithProcessID(ctx, p.step.Process.ID)
	ctx = services.WithStep(ctx, p.step.Title)
	return services.WithRequestID(ctx, correlationID)
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, services.ErrMetadataRead):
		return "check the process metadata document"
	case errors.Is(err, services.ErrPreferences):
		return "check that the process ruleset exists and is valid"
	case errors.Is(err, services.ErrStorageSwap):
		return "swap the process data back in and rerun the step"
	case errors.Is(err, services.ErrPersistence):
		return "check the process database"
	case errors.Is(err, services.ErrFilesystem):
		return "check the images directory; rerunning the step is safe"
	case errors.Is(err, services.ErrConfiguration):
		return "check the title replacement regex and plugin configuration"
	default:
		return "check the plugin configuration"
	}
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
