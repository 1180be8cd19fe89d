// Package mdscope limits a rewrite to the prose of a Markdown document.
//
// Code blocks, code spans and raw HTML are located with goldmark and left
// byte-for-byte intact; every other region is passed through the rewrite
// engine and the results are stitched back with fix edits.
package mdscope

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gocitations/pkg/fix"
	"github.com/yaklabco/gocitations/pkg/rewrite"
)

// Markdown flavors understood by New.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Segment is a byte range of the document.
type Segment struct {
	Start     int
	End       int
	Protected bool
}

// Guard applies a rewrite engine outside Markdown code regions.
type Guard struct {
	engine *rewrite.Engine
	md     goldmark.Markdown
}

// New creates a guard for the given flavor. Unknown flavors fall back to
// CommonMark.
func New(engine *rewrite.Engine, flavor string) *Guard {
	var opts []goldmark.Option
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return &Guard{
		engine: engine,
		md:     goldmark.New(opts...),
	}
}

// Rewrite rewrites every unprotected segment of document. Per-rule counts
// are summed over the rewritten segments.
func (g *Guard) Rewrite(ctx context.Context, document string) (rewrite.Result, error) {
	if err := ctx.Err(); err != nil {
		return rewrite.Result{}, fmt.Errorf("scope guard: %w", err)
	}

	table := g.engine.Table()
	counts := make([]rewrite.RuleCount, len(table))
	for i, rule := range table {
		counts[i].Rule = rule
	}

	var edits []fix.TextEdit
	for _, seg := range g.Segments(document) {
		if seg.Protected {
			continue
		}
		part := g.engine.ApplyDetailed(document[seg.Start:seg.End])
		if !part.Changed {
			continue
		}
		for i, c := range part.Counts {
			counts[i].Count += c.Count
		}
		edits = append(edits, fix.TextEdit{
			StartOffset: seg.Start,
			EndOffset:   seg.End,
			NewText:     part.Text,
		})
	}

	out, err := fix.Apply(document, edits)
	if err != nil {
		return rewrite.Result{}, fmt.Errorf("scope guard: %w", err)
	}
	return rewrite.Result{
		Text:    out,
		Changed: out != document,
		Counts:  counts,
	}, nil
}

// Apply is Rewrite without the per-rule counts.
func (g *Guard) Apply(ctx context.Context, document string) (string, bool, error) {
	result, err := g.Rewrite(ctx, document)
	if err != nil {
		return "", false, err
	}
	return result.Text, result.Changed, nil
}

// Segments splits document into contiguous protected and unprotected ranges.
func (g *Guard) Segments(document string) []Segment {
	if document == "" {
		return nil
	}

	source := []byte(document)
	root := g.md.Parser().Parse(text.NewReader(source), parser.WithContext(parser.NewContext()))

	protected := mergeRanges(protectedRanges(root, source))

	segments := make([]Segment, 0, 2*len(protected)+1)
	cursor := 0
	for _, r := range protected {
		if r.Start > cursor {
			segments = append(segments, Segment{Start: cursor, End: r.Start})
		}
		segments = append(segments, Segment{Start: r.Start, End: r.End, Protected: true})
		cursor = r.End
	}
	if cursor < len(source) {
		segments = append(segments, Segment{Start: cursor, End: len(source)})
	}
	return segments
}

// protectedRanges collects the byte ranges of code and raw HTML nodes.
func protectedRanges(root ast.Node, source []byte) []Segment {
	limit := len(source)
	var ranges []Segment
	add := func(start, end int) {
		start = max(start, 0)
		end = min(end, limit)
		if start < end {
			ranges = append(ranges, Segment{Start: start, End: end, Protected: true})
		}
	}

	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.FencedCodeBlock:
			// The info string sits on the opening fence line, outside Lines().
			if n.Info != nil {
				add(lineBounds(source, n.Info.Segment.Start))
			}
			if start, end, ok := linesRange(n.Lines()); ok {
				add(start, end)
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock, *ast.HTMLBlock:
			if start, end, ok := linesRange(n.Lines()); ok {
				add(start, end)
			}
			if html, isHTML := n.(*ast.HTMLBlock); isHTML && html.HasClosure() {
				add(html.ClosureLine.Start, html.ClosureLine.Stop)
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			start, end := -1, -1
			for child := n.FirstChild(); child != nil; child = child.NextSibling() {
				if t, isText := child.(*ast.Text); isText {
					if start == -1 || t.Segment.Start < start {
						start = t.Segment.Start
					}
					end = max(end, t.Segment.Stop)
				}
			}
			if start >= 0 {
				add(start, end)
			}
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			for i := range n.Segments.Len() {
				seg := n.Segments.At(i)
				add(seg.Start, seg.Stop)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return ranges
}

// lineBounds returns the line containing offset, newline included.
func lineBounds(source []byte, offset int) (int, int) {
	offset = min(max(offset, 0), len(source))
	start := bytes.LastIndexByte(source[:offset], '\n') + 1
	end := len(source)
	if i := bytes.IndexByte(source[offset:], '\n'); i >= 0 {
		end = offset + i + 1
	}
	return start, end
}

func linesRange(lines *text.Segments) (int, int, bool) {
	if lines == nil || lines.Len() == 0 {
		return 0, 0, false
	}
	return lines.At(0).Start, lines.At(lines.Len() - 1).Stop, true
}

func mergeRanges(ranges []Segment) []Segment {
	if len(ranges) == 0 {
		return nil
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })

	merged := []Segment{ranges[0]}
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			last.End = max(last.End, r.End)
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
