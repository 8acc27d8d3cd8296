package watcher

import (
	"time"
)

// FileEventType represents the type of file system event
type FileEventType string

const (
	FileCreated  FileEventType = "created"
	FileModified FileEventType = "modified"
)

// FileEvent represents a file system event
type FileEvent struct {
	Path      string
	Name      string
	EventType FileEventType
	Timestamp time.Time
}

// Handler receives the events of a Watcher, one at a time, on the watcher goroutine.
type Handler func(FileEvent)
