// Package ytdlp shells out to the yt-dlp binary for playlist enumeration,
// audio extraction, subtitle fetching, and upload date lookups.
package ytdlp
