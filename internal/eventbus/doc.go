// Package eventbus provides a small synchronous publish/subscribe bus.
package eventbus
