package config

const (
	defaultConfigPath       = "~/.config/retitle/config.toml"
	defaultDataDir          = "~/.local/share/retitle"
	defaultMetadataDir      = "~/.local/share/retitle/metadata"
	defaultRulesetsDir      = "~/.config/retitle/rulesets"
	defaultPluginConfigDir  = "~/.config/retitle/plugins"
	defaultReplacementRegex = `[\W]`
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:         defaultDataDir,
			MetadataDir:     defaultMetadataDir,
			RulesetsDir:     defaultRulesetsDir,
			PluginConfigDir: defaultPluginConfigDir,
		},
		Title: Title{
			ReplacementRegex: defaultReplacementRegex,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
