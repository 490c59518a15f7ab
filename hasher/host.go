package hasher

import "time"

// Feature is a host capability probed once when an Engine is created.
type Feature string

const (
	// FeatureHashChange means the host emits a native notification whenever
	// its hash changes. The host must also implement HashChangeNotifier.
	FeatureHashChange Feature = "hashchange"
	// FeatureHistoryRecords means writing the hash creates a history entry.
	// Hosts without it need the auxiliary frame to keep back/forward working.
	FeatureHistoryRecords Feature = "history-records"
	// FeatureLocalFile means the document was loaded from a local file.
	FeatureLocalFile Feature = "local-file"
	// FeatureQueryEscape marks hosts that misread a literal '?' inside the
	// hash of a local file. Together with FeatureLocalFile the engine writes
	// it escaped.
	FeatureQueryEscape Feature = "query-escape"
)

// Host is the navigation surface the engine keeps in sync with.
type Host interface {
	// Href returns the full current address.
	Href() string
	// SetHash replaces the hash segment. value is already URI encoded and
	// carries no leading '#'.
	SetHash(value string)
	Features() []Feature
}

type HashChangeNotifier interface {
	OnHashChange(fn func()) (cancel func())
}

// Frame is an auxiliary document correlated with host history entries. It is
// written with a whole document and read back as the value it stores.
type Frame interface {
	Write(doc string)
	FrameHash() (string, bool)
}

type FrameFactory interface {
	CreateFrame() Frame
}

type Titler interface {
	Title() string
	SetTitle(title string)
}

type Historian interface {
	Back()
	Forward()
	Go(delta int)
}

// Scheduler runs fn every d until cancelled. Callbacks must run on the same
// goroutine as every other call into the Engine.
type Scheduler interface {
	Every(d time.Duration, fn func()) (cancel func())
}
