package config

const (
	defaultCatalogFile      = "~/.local/share/spool/video_list.csv"
	defaultAudioDir         = "~/.local/share/spool/audio"
	defaultSubtitleDir      = "~/.local/share/spool/subtitle"
	defaultNotesDir         = "~/.local/share/spool/notes"
	defaultTranscriptDir    = "~/.local/share/spool/transcript"
	defaultSummaryDir       = "~/.local/share/spool/summary"
	defaultPagesDir         = "~/.local/share/spool/pages"
	defaultArchiveDir       = "~/archive/spool"
	defaultStateDir         = "~/.local/share/spool/state"
	defaultLogDir           = "~/.local/share/spool/logs"
	defaultMaxDuration      = 3600
	defaultAudioQuota       = 5
	defaultAudioPauseSecs   = 5
	defaultAudioFilePrefix  = "clip"
	defaultSubtitleQuota    = 5
	defaultSubtitleLanguage = "ja"
	defaultTranscribeQuota  = 2
	defaultWhisperModel     = "large-v3-turbo"
	defaultSummarizeQuota   = 3
	defaultDensityThreshold = 0.3
	defaultSummaryAttempts  = 10
	defaultDateQuota        = 10
	defaultPageBatchSize    = 50
	defaultPageTitle        = "Video Archive"
	defaultLLMBaseURL       = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMTimeoutSecs   = 120
	defaultLogLevel         = "info"
	defaultYtDlpBinary      = "yt-dlp"
	defaultWhisperBinary    = "whisper"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogFile:   defaultCatalogFile,
			AudioDir:      defaultAudioDir,
			SubtitleDir:   defaultSubtitleDir,
			NotesDir:      defaultNotesDir,
			TranscriptDir: defaultTranscriptDir,
			SummaryDir:    defaultSummaryDir,
			PagesDir:      defaultPagesDir,
			ArchiveDir:    defaultArchiveDir,
			StateDir:      defaultStateDir,
			LogDir:        defaultLogDir,
		},
		Source: Source{
			MaxDurationSeconds: defaultMaxDuration,
		},
		Audio: Audio{
			Quota:        defaultAudioQuota,
			PauseSeconds: defaultAudioPauseSecs,
			FilePrefix:   defaultAudioFilePrefix,
		},
		Subtitles: Subtitles{
			Quota:    defaultSubtitleQuota,
			Language: defaultSubtitleLanguage,
		},
		Transcribe: Transcribe{
			Quota: defaultTranscribeQuota,
			Model: defaultWhisperModel,
		},
		Summarize: Summarize{
			Quota:            defaultSummarizeQuota,
			DensityThreshold: defaultDensityThreshold,
			MaxAttempts:      defaultSummaryAttempts,
		},
		Dates: Dates{
			Quota: defaultDateQuota,
		},
		Pages: Pages{
			Title:      defaultPageTitle,
			BatchSize:  defaultPageBatchSize,
			Descending: true,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			TimeoutSeconds: defaultLLMTimeoutSecs,
		},
		Tools: Tools{
			YtDlp:   defaultYtDlpBinary,
			Whisper: defaultWhisperBinary,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
