package api

import (
	"encoding/json"
	"net/http"
)

// sseEvent mirrors the file-system-change/file-deleted shape: the
// watcher's Event plus a name tag so one stream can carry both.
type sseEvent struct {
	Name        string `json:"event"`
	Kind        string `json:"event_type"`
	Path        string `json:"path"`
	IsDirectory bool   `json:"is_directory"`
	TimestampMs int64  `json:"timestamp"`
}

// sseNotification carries the project-watch-notification payload: the
// strategy chosen for a watch, rather than a change classification.
type sseNotification struct {
	Name        string `json:"event"`
	Path        string `json:"path"`
	Strategy    string `json:"strategy"`
	Message     string `json:"message"`
	TimestampMs int64  `json:"timestamp"`
}

// handleEvents streams watcher changes/deletes/notifications as
// Server-Sent Events, the same text/event-stream upgrade the teacher's
// monitor applies to its Emit/Subscribe channel pair, adapted from one
// event channel to the watcher's three (change, delete, notification).
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	changes := s.disp.Watcher.Changes()
	deletes := s.disp.Watcher.Deletes()
	notifications := s.disp.Watcher.Notifications()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-changes:
			if !ok {
				return
			}
			writeSSE(w, flusher, "file-system-change", string(ev.Kind), ev.Path, ev.IsDirectory, ev.Timestamp.UnixMilli())
		case ev, ok := <-deletes:
			if !ok {
				return
			}
			writeSSE(w, flusher, "file-deleted", string(ev.Kind), ev.Path, ev.IsDirectory, ev.Timestamp.UnixMilli())
		case n, ok := <-notifications:
			if !ok {
				return
			}
			writeNotifySSE(w, flusher, n.Path, string(n.Strategy), n.Message, n.Timestamp.UnixMilli())
		}
	}
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, name, kind, path string, isDir bool, tsMs int64) {
	data, err := json.Marshal(sseEvent{Name: name, Kind: kind, Path: path, IsDirectory: isDir, TimestampMs: tsMs})
	if err != nil {
		return
	}
	w.Write([]byte("event: " + name + "\n"))
	w.Write([]byte("data: "))
	w.Write(data)
	w.Write([]byte("\n\n"))
	flusher.Flush()
}

func writeNotifySSE(w http.ResponseWriter, flusher http.Flusher, path, strategy, message string, tsMs int64) {
	const name = "project-watch-notification"
	data, err := json.Marshal(sseNotification{Name: name, Path: path, Strategy: strategy, Message: message, TimestampMs: tsMs})
	if err != nil {
		return
	}
	w.Write([]byte("event: " + name + "\n"))
	w.Write([]byte("data: "))
	w.Write(data)
	w.Write([]byte("\n\n"))
	flusher.Flush()
}
