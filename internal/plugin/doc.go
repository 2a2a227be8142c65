// Package plugin ties the collapse coordinator, classifier and trackers to a
// host. Trackers observe each chat event at priority 0; the plugin ingests
// it at priority -2 so counting never depends on the cache state.
package plugin
