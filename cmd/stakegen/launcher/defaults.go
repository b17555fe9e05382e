package launcher

// Defaults bundles the baseline launcher values used before preset and
// flag overrides are applied. Consensus-critical values never live here;
// they come from params via the selected preset.

type Defaults struct {
	Preset  string // preset applied when --preset is not given
	Output  OutputDefaults
	Logging LoggingDefaults
}

// OutputDefaults captures fragment output behaviour.
type OutputDefaults struct {
	Path   string // where the fragment is written; always via temp file + rename
	DryRun bool   // run the pipeline but write nothing
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    // 0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace
	Format    string // text or json
	Color     bool   // ANSI colors; best disabled when piping to files
	SentryDSN string // error reporting hook; disabled when empty
}

// DefaultConfig returns the baseline defaults.
func DefaultConfig() Defaults {
	return Defaults{
		Preset: "bitcoin-mainnet",
		Output: OutputDefaults{
			Path:   "genesis-fragment.json",
			DryRun: false,
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     true,
		},
	}
}
