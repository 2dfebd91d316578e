// Package memory holds the message model of one agent run.
//
// History is append-only and owned by a single run. Nothing here is reloaded
// across processes: SaveTranscript writes a debug artifact only.
package memory
