// Package dedupe provides the bounded recency cache that backs duplicate
// chat line collapsing. Each cache maps exact message text to a Record and
// evicts by insertion order once it grows past its capacity.
package dedupe
