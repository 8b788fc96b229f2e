package materializer

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/copyq/itemsync/internal/collection"
	"github.com/copyq/itemsync/internal/errs"
	"github.com/copyq/itemsync/internal/item"
	"github.com/copyq/itemsync/internal/scanner"
	"github.com/copyq/itemsync/internal/sidecar"
)

// ReadDirectory runs Direction R: it lists dir, matches existing rows to
// buckets by basename, hydrates matched rows, drops rows whose bucket
// disappeared, and inserts new rows for unmatched buckets at the top,
// oldest-first, up to the model's row cap.
func (m *Materializer) ReadDirectory(dir string, model collection.Model) error {
	buckets, err := scanner.Scan(dir, m.Registry)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrFileReadFailed, err)
	}

	byBase := make(map[string]*scanner.Bucket, len(buckets))
	order := make([]string, len(buckets))
	for i := range buckets {
		byBase[buckets[i].BaseName] = &buckets[i]
		order[i] = buckets[i].BaseName
	}

	var toRemove []int
	for i := 0; i < model.Len(); i++ {
		it := model.Data(i)
		if it == nil {
			continue
		}
		b, ok := byBase[it.Meta.BaseName]
		if !ok {
			toRemove = append(toRemove, i)
			continue
		}
		delete(byBase, it.Meta.BaseName)
		if err := m.hydrateRow(dir, it, *b); err != nil {
			return err
		}
		model.SetData(i, it, collection.Replace)
	}

	for i := len(toRemove) - 1; i >= 0; i-- {
		model.RemoveRow(toRemove[i])
	}

	var remaining []scanner.Bucket
	for _, base := range order {
		if b, ok := byBase[base]; ok {
			remaining = append(remaining, *b)
		}
	}
	sort.SliceStable(remaining, func(a, b int) bool {
		return earliestModTime(remaining[a]).Before(earliestModTime(remaining[b]))
	})

	rowCap := model.MaxItems()
	for _, b := range remaining {
		if rowCap > 0 && model.Len() >= rowCap {
			break
		}
		it := item.New()
		it.Meta.BaseName = b.BaseName
		if err := m.hydrateRow(dir, it, b); err != nil {
			return err
		}
		model.InsertRow(0, it)
	}

	return nil
}

func (m *Materializer) hydrateRow(dir string, it *item.Item, b scanner.Bucket) error {
	newExtMap := make(map[string]string)

	for _, f := range b.Files {
		if f.Ext == sidecar.Suffix {
			raw, err := os.ReadFile(f.Path)
			if err != nil {
				continue
			}
			residual, err := sidecar.Decode(raw)
			if err != nil {
				newExtMap[""] = ""
				continue
			}
			for mime, payload := range residual {
				it.Payload[mime] = payload
			}
			newExtMap[""] = sidecar.Suffix
			continue
		}

		if scanner.Oversized(f.Path) || f.Mime == "" {
			newExtMap[""] = ""
			continue
		}

		data, err := os.ReadFile(f.Path)
		if err != nil {
			continue
		}
		it.Payload[f.Mime] = data
		newExtMap[f.Mime] = f.Ext
	}

	if len(newExtMap) == 0 {
		newExtMap[""] = ""
	}
	it.Meta.ExtMap = newExtMap
	return nil
}

func earliestModTime(b scanner.Bucket) time.Time {
	var earliest time.Time
	for i, f := range b.Files {
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}
		mt := info.ModTime()
		if i == 0 || mt.Before(earliest) {
			earliest = mt
		}
	}
	return earliest
}
