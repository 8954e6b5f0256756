package config

const (
	defaultDataDir             = "~/.local/share/scribe"
	defaultLogDir              = "~/.local/share/scribe/logs"
	defaultLockFile            = "~/.local/share/scribe/scribed.lock"
	defaultAPIBind             = "127.0.0.1:7419"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLLMBaseURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel            = "google/gemini-3-flash-preview"
	defaultLLMReferer          = "https://github.com/scribe-todo/scribe"
	defaultLLMTitle            = "Scribe Task Enrichment"
	defaultLLMTimeoutSeconds   = 60
	defaultConfidenceThreshold = 0.7
	defaultWorkers             = 4
	defaultQueuePollInterval   = 5
	defaultErrorRetryInterval  = 10
	defaultCacheTTLSeconds     = 3600
	defaultCacheCapacity       = 256
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			LockFile: defaultLockFile,
			APIBind:  defaultAPIBind,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Enrichment: Enrichment{
			ConfidenceThreshold: defaultConfidenceThreshold,
			Workers:             defaultWorkers,
			QueuePollInterval:   defaultQueuePollInterval,
			ErrorRetryInterval:  defaultErrorRetryInterval,
			CacheTTLSeconds:     defaultCacheTTLSeconds,
			CacheCapacity:       defaultCacheCapacity,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
