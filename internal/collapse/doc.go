// Package collapse folds repeated identical chat lines into one displayed
// line annotated with its count.
//
// The Coordinator answers two independent triggers for the same message:
// the host's pre-render filter check (FilterCheck), and the post-classification
// ingest (Ingest). Ingest owns every cache write; FilterCheck only reads.
package collapse
