package config

const (
	defaultAudioDir           = "~/audio"
	defaultLogDir             = "~/.local/share/scribe/logs"
	defaultWorkDir            = "~/.local/share/scribe/work"
	defaultSocketPath         = "~/.local/share/scribe/scribed.sock"
	defaultWhisperModel       = "whisper-1"
	defaultAudioModel         = "gpt-4o-audio-preview"
	defaultOpenAITimeout      = 300
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultMaxConcurrency     = 4
	defaultCacheMaxEntries    = 0
	defaultCompressCeilingMB  = 25
	defaultCompressStartKbps  = 128
	defaultCompressMinKbps    = 32
	defaultCompressMaxRetries = 6
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AudioDir:   defaultAudioDir,
			LogDir:     defaultLogDir,
			WorkDir:    defaultWorkDir,
			SocketPath: defaultSocketPath,
		},
		OpenAI: OpenAI{
			WhisperModel:   defaultWhisperModel,
			AudioModel:     defaultAudioModel,
			TimeoutSeconds: defaultOpenAITimeout,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Batch: Batch{
			MaxConcurrency: defaultMaxConcurrency,
		},
		Cache: Cache{
			MaxEntries: defaultCacheMaxEntries,
			Watch:      true,
		},
		Compression: Compression{
			DefaultCeilingMB: defaultCompressCeilingMB,
			StartBitrateKbps: defaultCompressStartKbps,
			MinBitrateKbps:   defaultCompressMinKbps,
			MaxAttempts:      defaultCompressMaxRetries,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
