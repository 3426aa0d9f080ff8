// Command spool maintains a personal video archive: it keeps a CSV catalog
// of a playlist, downloads audio and subtitles under per-run quotas,
// transcribes and summarizes content, mirrors artifacts into an archive
// directory, and renders paginated markdown listings.
package main
