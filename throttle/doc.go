/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package throttle provides a fixed-window permit limiter for gating outgoing requests.
//
// The limiter hands out up to a configured number of permits per time window and
// restores the full budget at the start of every window. Unlike a token bucket or
// a sliding window, the reset is a hard one: capacity consumed near the end of a
// window does not reduce what is available right after the tick, so a burst of up
// to 2×limit requests spanning a window boundary is possible. This matches the
// per-window volume contract of the remote API and is intentional.
package throttle
