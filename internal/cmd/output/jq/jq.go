package jq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	cmdcommon "github.com/happyjobs/happyctl/internal/cmd/common"
	"github.com/itchyny/gojq"
	"github.com/mattn/go-isatty"
)

var compiled sync.Map

// Filter is a compiled jq expression.
type Filter struct {
	expr string
	code *gojq.Code
}

// Compile parses expr, reusing earlier compilations of the same text.
func Compile(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = "."
	}
	if f, ok := compiled.Load(expr); ok {
		return f.(*Filter), nil
	}
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	f := &Filter{expr: expr, code: code}
	compiled.Store(expr, f)
	return f, nil
}

// Eval runs the filter over a JSON document and returns every result.
func (f *Filter) Eval(body []byte) ([]any, error) {
	if len(body) == 0 {
		return nil, errors.New("response body is empty, cannot apply jq filter")
	}
	var input any
	if err := json.Unmarshal(body, &input); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	var results []any
	iter := f.code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return results, nil
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq filter failed: %w", err)
		}
		results = append(results, v)
	}
}

// collapse turns filter results into one value: null for none, the value
// itself for one, and an array otherwise.
func collapse(results []any) any {
	switch len(results) {
	case 0:
		return nil
	case 1:
		return results[0]
	default:
		return results
	}
}

// Apply filters raw, the value a command would otherwise print. When the
// result has already been written to out, handled is true; otherwise the
// returned value replaces raw for the regular printer.
func Apply(raw any, outType cmdcommon.OutputFormat, s Settings, out io.Writer) (filtered any, handled bool, err error) {
	if !s.HasFilter() {
		return raw, false, nil
	}
	if err := s.Validate(outType); err != nil {
		return nil, false, err
	}

	body, err := json.Marshal(raw)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode output before applying jq filter: %w", err)
	}
	f, err := Compile(s.Filter)
	if err != nil {
		return nil, false, err
	}
	results, err := f.Eval(body)
	if err != nil {
		return nil, false, err
	}

	if s.RawOutput {
		return nil, true, writeRaw(results, out)
	}

	value := collapse(results)
	if outType == cmdcommon.JSON && UseColor(s.ColorMode, out) {
		pretty, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, false, err
		}
		_, err = fmt.Fprintln(out, strings.TrimRight(Colorize(string(pretty), s.Theme), "\n"))
		return nil, true, err
	}
	return value, false, nil
}

func writeRaw(results []any, out io.Writer) error {
	for _, r := range results {
		line, ok := r.(string)
		if !ok {
			b, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("failed to encode filtered result: %w", err)
			}
			line = string(b)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

var isTerminal = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// UseColor decides whether jq output to out should be colorized. NO_COLOR
// disables the auto mode.
func UseColor(mode cmdcommon.ColorMode, out io.Writer) bool {
	switch mode {
	case cmdcommon.ColorModeAlways:
		return true
	case cmdcommon.ColorModeNever:
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	fw, ok := out.(interface{ Fd() uintptr })
	return ok && isTerminal(fw.Fd())
}

// Colorize highlights a JSON document with the named chroma style. The
// input is returned unchanged when highlighting fails.
func Colorize(doc, theme string) string {
	lexer := lexers.Get("json")
	formatter := formatters.Get("terminal256")
	if lexer == nil || formatter == nil {
		return doc
	}
	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}
	tokens, err := lexer.Tokenise(nil, doc)
	if err != nil {
		return doc
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, tokens); err != nil {
		return doc
	}
	return buf.String()
}
