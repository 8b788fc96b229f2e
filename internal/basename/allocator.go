// Package basename allocates unique, filesystem-safe base names for items,
// following the collision-avoidance algorithm in SPEC_FULL.md §4.B.
package basename

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/copyq/itemsync/internal/errs"
	"github.com/copyq/itemsync/internal/format"
)

// maxCounter bounds the numeric suffix an Allocator will try before giving
// up, matching the ceiling in the original algorithm.
const maxCounter = 99999

var (
	unsafeChars  = regexp.MustCompile(`[/\\]|^\.`)
	newlineChars = regexp.MustCompile(`\r|\n`)
	trailingNum  = regexp.MustCompile(`\d+$`)
)

// Allocator hands out base names that are unique within a single
// synchronization pass. It is not safe for concurrent use; callers run one
// allocator per directory scan.
type Allocator struct {
	registry *format.Registry
	used     map[string]bool
}

// New returns an Allocator with no names yet reserved. reg may be nil to
// use only the built-in extension table when resolving a name's extension
// suffix.
func New(reg *format.Registry) *Allocator {
	return &Allocator{registry: reg, used: make(map[string]bool)}
}

// Reserve marks name as taken without going through collision resolution,
// used to seed the allocator with base names already present on disk.
func (a *Allocator) Reserve(name string) {
	a.used[name] = true
}

// Unique sanitizes name and, if it collides with a previously allocated or
// reserved name, appends or increments a numeric suffix until a free name
// is found. An empty name is replaced with "copyq_0000" first, matching the
// original's default. It returns errs.ErrNameExhausted if no free name is
// found within the counter ceiling.
func (a *Allocator) Unique(name string) (string, error) {
	if name == "" {
		name = "copyq_0000"
	} else {
		name = unsafeChars.ReplaceAllString(name, "_")
		name = newlineChars.ReplaceAllString(name, "")
	}

	if !a.used[name] {
		a.used[name] = true
		return name, nil
	}

	ext := a.suffixOf(name)
	stem := name[:len(name)-len(ext)]
	if strings.HasSuffix(stem, ".") {
		stem = stem[:len(stem)-1]
		ext = "." + ext
	}

	var counter int
	var fieldWidth int
	if m := trailingNum.FindString(stem); m != "" {
		fieldWidth = len(m)
		stem = stem[:len(stem)-fieldWidth]
		fmt.Sscanf(m, "%d", &counter)
	} else {
		stem += "-"
	}

	for {
		counter++
		if counter > maxCounter {
			return "", errs.ErrNameExhausted
		}
		candidate := fmt.Sprintf("%s%0*d%s", stem, fieldWidth, counter, ext)
		if !a.used[candidate] {
			a.used[candidate] = true
			return candidate, nil
		}
	}
}

// suffixOf returns the extension suffix of name as determined by the
// registry (falling back to the last dot-delimited segment when the
// registry has no opinion), used only to decide where the numeric counter
// should be inserted.
func (a *Allocator) suffixOf(name string) string {
	if ext, _, ignored := a.registry.ByFile(name); !ignored && ext != "" {
		return ext
	}
	if i := strings.LastIndexByte(name, '.'); i != -1 {
		return name[i:]
	}
	return ""
}
