// Package chat defines the boundary with the host that delivers and renders
// chat messages: categories, message events, and the small imperative API
// the collapse and tracking code drive.
package chat
