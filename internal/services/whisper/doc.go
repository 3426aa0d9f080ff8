// Package whisper shells out to a local whisper binary to transcribe
// downloaded audio files.
package whisper
