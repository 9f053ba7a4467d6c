package mediatypes

// Rendition is one concrete output file derived from a source file under a
// specific preset. OutputPath is relative to the processed-media directory;
// the persistence collaborator is responsible for turning it into a servable
// URL.
type Rendition struct {
	PresetName string `json:"presetName"`
	OutputPath string `json:"outputPath"`
	SizeBytes  int64  `json:"sizeBytes"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// PresetFailure records one failed preset encode on the image path. The
// sibling presets of the same source still complete, so a result can carry
// both renditions and failures.
type PresetFailure struct {
	PresetName string `json:"presetName"`
	Reason     string `json:"reason"`
	Err        error  `json:"-"`
}

// ProcessingResult aggregates everything one pipeline invocation produced
// for one source file. It owns its renditions.
type ProcessingResult struct {
	Source            string          `json:"source"`
	Status            JobStatus       `json:"status"`
	Renditions        []Rendition     `json:"renditions"`
	Thumbnail         *Rendition      `json:"thumbnail,omitempty"`
	PresetFailures    []PresetFailure `json:"presetFailures,omitempty"`
	Warnings          []string        `json:"warnings,omitempty"`
	OriginalSizeBytes int64           `json:"originalSizeBytes"`
	Format            string          `json:"format"`
	ProcessingTimeMs  int64           `json:"processingTimeMs"`
}

// BatchEntry is the outcome for one input of a batch, at its original input
// index. Exactly one of Result and Err is set.
type BatchEntry struct {
	Index  int               `json:"index"`
	Result *ProcessingResult `json:"result,omitempty"`
	Err    error             `json:"-"`
	Error  string            `json:"error,omitempty"`
}

// BatchResult is the ordered outcome of a batch: exactly one entry per input
// file, in input order, regardless of completion order.
type BatchResult []BatchEntry

// Succeeded returns the number of entries that produced a result.
func (b BatchResult) Succeeded() int {
	n := 0
	for _, e := range b {
		if e.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of entries that ended in an error.
func (b BatchResult) Failed() int {
	return len(b) - b.Succeeded()
}
