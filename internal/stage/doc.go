// Package stage provides the generic bounded-quota runner every artifact
// stage is built on, plus the pacing and retry policies injected into it.
package stage
