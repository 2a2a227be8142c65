// Package tracker keeps running success and failure counts per tracker and
// level. Each tracker subscribes to the chat event bus independently.
package tracker
