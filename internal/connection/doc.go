// Package connection maintains the streaming quote subscription.
//
// A Feed owns at most one WebSocket at a time and moves through
// Idle, Connecting, Subscribed, then Closing or Faulted, and back to Idle
// while a reconnect timer runs. Stop is terminal.
//
// Every socket event and timer callback is funneled into a single loop
// goroutine, so frames are decoded and handed to the Sink in arrival order
// and a reconnect can never overlap a live session.
package connection
