package config

const (
	defaultRoot            = "~/.local/share/mls"
	defaultLanguage        = "mls_italian_opus"
	defaultAudioExt        = ".opus"
	defaultSplitterWorkers = 0
	defaultPhonemizeBinary = "espeak-ng"
	defaultPhonemizeVoice  = "en"
	defaultFetchBaseURL    = "https://dl.fbaipublicfiles.com/mls"
	defaultFetchTimeout    = 0
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Root: defaultRoot,
		},
		Corpus: Corpus{
			Language: defaultLanguage,
			AudioExt: defaultAudioExt,
		},
		Splitter: Splitter{
			Workers: defaultSplitterWorkers,
		},
		Phonemize: Phonemize{
			Binary: defaultPhonemizeBinary,
			Voice:  defaultPhonemizeVoice,
		},
		Fetch: Fetch{
			BaseURL:        defaultFetchBaseURL,
			TimeoutSeconds: defaultFetchTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
