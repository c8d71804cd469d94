package wsutil

import "log/slog"

// SafeSend enqueues data without blocking and without panicking if the
// channel was closed meanwhile. It reports whether data was queued; a full or
// closed channel drops it.
func SafeSend(ch chan []byte, data []byte) (sent bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("send on closed channel", "tag", "wsutil", "panic", r)
			sent = false
		}
	}()
	select {
	case ch <- data:
		return true
	default:
		return false
	}
}
