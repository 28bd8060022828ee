package adapter

import (
	"bytes"
	"fmt"
	"sort"

	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

// Print splices edits into src. Bytes outside the edited offsets are copied
// through unchanged, so formatting and comments survive the rewrite.
func (a *TreeSitterAdapter) Print(src []byte, edits []m.Edit) ([]byte, error) {
	return applyEdits(src, edits)
}

func applyEdits(src []byte, edits []m.Edit) ([]byte, error) {
	if len(edits) == 0 {
		return append([]byte(nil), src...), nil
	}

	sorted := make([]m.Edit, len(edits))
	copy(sorted, edits)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Offset != sorted[j].Offset {
			return sorted[i].Offset < sorted[j].Offset
		}

		return sorted[i].Closing && !sorted[j].Closing
	})

	size := len(src)
	for _, edit := range sorted {
		if edit.Offset > uint(len(src)) {
			return nil, fmt.Errorf("edit offset %d out of range (source length %d)", edit.Offset, len(src))
		}

		size += len(edit.Text)
	}

	var out bytes.Buffer

	out.Grow(size)

	last := uint(0)
	for _, edit := range sorted {
		out.Write(src[last:edit.Offset])
		out.WriteString(edit.Text)
		last = edit.Offset
	}

	out.Write(src[last:])

	return out.Bytes(), nil
}
