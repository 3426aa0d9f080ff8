// Package llm provides a client for OpenAI-compatible chat completion APIs,
// used to summarize transcripts. Requests retry with exponential backoff on
// rate limits, server errors, and timeouts.
package llm
