package app

import (
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestIsInputEvent(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"rates write", fsnotify.Event{Name: "data/FED-RATES.csv", Op: fsnotify.Write}, true},
		{"transactions create", fsnotify.Event{Name: "data/TRANSACTIONS-PT.csv", Op: fsnotify.Create}, true},
		{"atomic save rename", fsnotify.Event{Name: "data/TRANSACTIONS-PT.csv", Op: fsnotify.Rename}, true},
		{"unrelated file", fsnotify.Event{Name: "data/notes.txt", Op: fsnotify.Write}, false},
		{"editor temp file", fsnotify.Event{Name: "data/TRANSACTIONS-PT.csv.swp", Op: fsnotify.Write}, false},
		{"chmod only", fsnotify.Event{Name: "data/FED-RATES.csv", Op: fsnotify.Chmod}, false},
		{"removal", fsnotify.Event{Name: "data/FED-RATES.csv", Op: fsnotify.Remove}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isInputEvent(tt.event); got != tt.want {
				t.Errorf("isInputEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}
