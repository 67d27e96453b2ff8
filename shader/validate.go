package shader

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/halo/internal/logging"
)

// Validator turns shader text into an Artifact. The returned error is a
// *Diagnostic unless ctx was done before validation started.
type Validator interface {
	Validate(ctx context.Context, text string) (*Artifact, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, text string) (*Artifact, error)

// Validate calls f(ctx, text).
func (f ValidatorFunc) Validate(ctx context.Context, text string) (*Artifact, error) {
	return f(ctx, text)
}

// Naga is the default Validator, backed by the naga WGSL front end.
var Naga Validator = ValidatorFunc(Validate)

var (
	// parser errors: "... line 3, column 7: unexpected token"
	parserPos = regexp.MustCompile(`line (\d+), column (\d+): (.+)$`)
	// lowering errors: "3:7: undefined identifier (and 2 more errors)"
	lowerPos = regexp.MustCompile(`^(\d+):(\d+): (.+?)(?: \(and \d+ more errors\))?$`)

	fragmentAttr = regexp.MustCompile(`@\s*fragment\b`)

	// lowering reports these at the enclosing declaration
	unresolvedIdent = regexp.MustCompile(`unresolved identifier: ([A-Za-z_][A-Za-z0-9_]*)`)
)

// Validate parses, lowers and validates Prologue followed by text. It does
// not touch any shared state, so identical text always gives identical
// results.
func Validate(ctx context.Context, text string) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full := Concat(text)

	ast, err := naga.Parse(full)
	if err != nil {
		return nil, parseDiagnostic(full, text, err)
	}
	module, err := naga.LowerWithSource(ast, full)
	if err != nil {
		return nil, parseDiagnostic(full, text, err)
	}

	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, &Diagnostic{Kind: KindSemantic, Message: err.Error()}
	}
	if len(verrs) > 0 {
		return nil, semanticDiagnostic(verrs)
	}

	entry, ok := fragmentEntryPoint(module)
	if !ok {
		return nil, &Diagnostic{Kind: KindSemantic, Message: MissingEntryPoint}
	}

	logging.Logger().Debug("shader validated", "entry", entry, "bytes", len(text))
	return &Artifact{
		Source:     text,
		Full:       full,
		EntryPoint: entry,
		module:     module,
	}, nil
}

func fragmentEntryPoint(m *ir.Module) (string, bool) {
	for i := range m.EntryPoints {
		if m.EntryPoints[i].Stage == ir.StageFragment {
			return m.EntryPoints[i].Name, true
		}
	}
	return "", false
}

func semanticDiagnostic(verrs []ir.ValidationError) *Diagnostic {
	msg := verrs[0].Error()
	if n := len(verrs) - 1; n > 0 {
		msg = fmt.Sprintf("%s (and %d more)", msg, n)
	}
	return &Diagnostic{Kind: KindSemantic, Message: msg}
}

// parseDiagnostic recovers the source position from a naga front-end
// error and builds a labelled KindParse diagnostic over full.
func parseDiagnostic(full, text string, err error) *Diagnostic {
	raw := err.Error()
	d := &Diagnostic{Kind: KindParse, Message: raw}

	line, col, msg, ok := errorPosition(raw)
	if ok {
		d.Message = msg
		off := offsetOf(full, line, col)
		span := tokenSpan(full, off)
		if m := unresolvedIdent.FindStringSubmatch(msg); m != nil {
			if ident, found := identSpan(full, off, m[1]); found {
				span = ident
			}
		}
		d.Labels = []Label{{Span: span, Message: msg}}
	}
	if !fragmentAttr.MatchString(text) {
		d.Message = MissingEntryPoint
	}
	for i := range d.Labels {
		if d.Labels[i].Message == d.Message {
			d.Labels[i].Message = ""
		}
	}
	return d
}

// identSpan finds the first use of name as a whole identifier in the
// declaration starting at off. The search ends with the declaration's
// closing brace. Member accesses such as uniforms.name are skipped.
func identSpan(text string, off int, name string) (Span, bool) {
	end := declEnd(text, off)
	for i := off; i < end; {
		j := strings.Index(text[i:end], name)
		if j < 0 {
			break
		}
		start := i + j
		stop := start + len(name)
		before := start > 0 && (isIdentByte(text[start-1]) || text[start-1] == '.')
		after := stop < len(text) && isIdentByte(text[stop])
		if !before && !after {
			return Span{Start: offset32(start), End: offset32(stop)}, true
		}
		i = start + 1
	}
	return Span{}, false
}

// declEnd returns the offset just past the brace closing the first block
// opened at or after off, or len(text) if the block is not closed.
func declEnd(text string, off int) int {
	depth := 0
	for i := off; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(text)
}

func errorPosition(raw string) (line, col int, msg string, ok bool) {
	// Only the first line carries the position; wrapped causes may follow.
	first, _, _ := strings.Cut(raw, "\n")
	if m := parserPos.FindStringSubmatch(first); m != nil {
		return atoi(m[1]), atoi(m[2]), m[3], true
	}
	if m := lowerPos.FindStringSubmatch(first); m != nil {
		return atoi(m[1]), atoi(m[2]), m[3], true
	}
	return 0, 0, "", false
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
