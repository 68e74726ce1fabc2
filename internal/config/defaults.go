package config

const (
	defaultPathToDocs     = "data/editions"
	defaultGlob           = "*.xml"
	defaultTocDir         = "data/toc"
	defaultOutputMode     = "concOutput"
	defaultFetchTimeout   = 15
	defaultFetchRateLimit = 250
	defaultFetchCacheTTL  = 300
	defaultRegisterOutDir = "data/index"
	defaultSnapshotDir    = "snapshots"
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
)

// Default returns a Config populated with repository defaults.
// Base URLs have no default: the legacy and new hosts are deployment
// facts and must come from the config file or flags.
func Default() Config {
	return Config{
		Corpus: Corpus{
			PathToDocs: defaultPathToDocs,
			Glob:       defaultGlob,
			TocDir:     defaultTocDir,
		},
		Redirect: Redirect{
			OutputMode: defaultOutputMode,
		},
		Fetch: Fetch{
			TimeoutSeconds:  defaultFetchTimeout,
			RateLimitMillis: defaultFetchRateLimit,
			CacheTTLSeconds: defaultFetchCacheTTL,
		},
		Register: Register{
			OutDir: defaultRegisterOutDir,
		},
		Snapshot: Snapshot{
			Dir: defaultSnapshotDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
