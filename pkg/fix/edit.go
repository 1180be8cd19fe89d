// Package fix provides byte-range text edits and unified diffs for rewritten documents.
package fix

import (
	"bytes"
	"fmt"
	"sort"
)

// TextEdit replaces bytes [StartOffset, EndOffset) with NewText.
type TextEdit struct {
	StartOffset int
	EndOffset   int
	NewText     string
}

// InvalidEditError describes an edit whose range does not fit the content.
type InvalidEditError struct {
	Edit   TextEdit
	Reason string
}

func (e *InvalidEditError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Reason)
}

// OverlapError describes two edits that touch the same bytes.
type OverlapError struct {
	First  TextEdit
	Second TextEdit
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.First.StartOffset, e.First.EndOffset,
		e.Second.StartOffset, e.Second.EndOffset)
}

// PrepareEdits validates edits against contentLen and returns them sorted by offset.
// The input slice is not modified.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	for _, edit := range edits {
		switch {
		case edit.StartOffset < 0:
			return nil, &InvalidEditError{Edit: edit, Reason: "start offset is negative"}
		case edit.EndOffset < edit.StartOffset:
			return nil, &InvalidEditError{Edit: edit, Reason: "end offset is before start offset"}
		case edit.EndOffset > contentLen:
			return nil, &InvalidEditError{
				Edit:   edit,
				Reason: fmt.Sprintf("end offset exceeds content length %d", contentLen),
			}
		}
	}

	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartOffset != sorted[j].StartOffset {
			return sorted[i].StartOffset < sorted[j].StartOffset
		}
		return sorted[i].EndOffset < sorted[j].EndOffset
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].StartOffset < sorted[i-1].EndOffset {
			return nil, &OverlapError{First: sorted[i-1], Second: sorted[i]}
		}
	}

	return sorted, nil
}

// ApplyEdits applies edits prepared by PrepareEdits to content.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	delta := 0
	for _, e := range edits {
		delta += len(e.NewText) - (e.EndOffset - e.StartOffset)
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.Write(content[cursor:])

	return out.Bytes()
}

// Apply validates edits and applies them to text.
func Apply(text string, edits []TextEdit) (string, error) {
	prepared, err := PrepareEdits(edits, len(text))
	if err != nil {
		return "", err
	}
	if len(prepared) == 0 {
		return text, nil
	}
	return string(ApplyEdits([]byte(text), prepared)), nil
}
