package config

// Host holds the resolved settings of a nexus host process.
type Host struct {
	// ScriptsDir is the directory scanned for *.zy node definition scripts.
	ScriptsDir string

	// StorePath is the SQLite graph store path. Empty selects the
	// in-memory store.
	StorePath string

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string

	// LogFormat is "text" or "json".
	LogFormat string

	// Metrics enables OpenTelemetry metrics for runs.
	Metrics bool

	// Tracing enables OpenTelemetry tracing for runs.
	Tracing bool
}

// DefaultHost returns the host defaults used when a key is absent.
func DefaultHost() Host {
	return Host{
		ScriptsDir: "scripts",
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// HostFrom extracts host settings from a Config, filling absent keys
// with defaults.
func HostFrom(cfg Config) Host {
	def := DefaultHost()
	return Host{
		ScriptsDir: cfg.String("scripts_dir", def.ScriptsDir),
		StorePath:  cfg.String("store_path", def.StorePath),
		LogLevel:   cfg.String("log_level", def.LogLevel),
		LogFormat:  cfg.String("log_format", def.LogFormat),
		Metrics:    cfg.Bool("metrics", def.Metrics),
		Tracing:    cfg.Bool("tracing", def.Tracing),
	}
}
