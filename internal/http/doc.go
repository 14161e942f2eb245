// Package http exposes the presentation surface of the cafe manager: the
// table grid, session controls, order entry, and the daily report, as a
// small JSON API consumed by the front-of-house UI.
package http
