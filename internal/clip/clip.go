package clip

import (
	"github.com/atotto/clipboard"
)

// Register keeps the last yanked text and mirrors it to the system
// clipboard when one is available.
type Register struct {
	text   string
	system func(string) error
}

func New() *Register {
	return &Register{system: clipboard.WriteAll}
}

// Write stores text and reports whether the system clipboard accepted it.
func (r *Register) Write(text string) bool {
	r.text = text
	if r.system == nil {
		return false
	}
	return r.system(text) == nil
}

func (r *Register) Text() string {
	return r.text
}
