// Package services holds the shared error taxonomy and context plumbing for
// external collaborator clients (yt-dlp, whisper, LLM summarization).
package services
