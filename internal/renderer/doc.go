// Package renderer is the unprivileged half of keypad. It owns the
// terminal, the open tabs and the editing widget, and learns about files
// only through bridge messages from the host.
//
// All UI state is touched from the goroutine running App.Run. Bridge
// handlers run on the endpoint's reading goroutine, so they queue closures
// onto the UI goroutine and wake it with a backend interrupt.
package renderer
