// Package stages assembles the concrete pipeline stages (audio, subtitles,
// notes, transcription, summarization) on top of the generic runner, wiring
// in per-stage naming, quotas, and external services.
package stages
