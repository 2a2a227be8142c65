// Package classify decides whether a chat line is a tracked success or
// failure by exact comparison with configured pattern lines.
package classify
