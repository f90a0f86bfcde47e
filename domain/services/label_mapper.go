package services

import "context"

// LabelEntry is the registry projection for one classifier label.
type LabelEntry struct {
	Name       string
	Department string
}

// LabelMapper projects the registry as labelId → (name, department). The map
// is rebuilt at the start of each recognition session and after registry
// changes; reads during a session are safe.
type LabelMapper interface {
	Refresh(ctx context.Context) error
	Resolve(label int) (LabelEntry, bool)
	Count() int
}
