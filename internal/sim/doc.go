// Package sim is an in-memory game client used to replay chat scripts.
package sim
