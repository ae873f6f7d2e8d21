package tools

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bntaxonomy/bntaxonomy/pkg/control"
)

// ParseError reports tool output that could not be decoded.
type ParseError struct {
	Format string
	Line   int // 1-based; 0 when the error is not tied to a line
	Msg    string
	Err    error // underlying decode error, if any
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s output: line %d: %s", e.Format, e.Line, e.Msg)
	}
	return fmt.Sprintf("parse %s output: %s", e.Format, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser decodes the standard output of a tool.
type Parser func(out []byte) ([]control.Intervention, error)

// Output formats understood by [ParserFor].
const (
	FormatJSON       = "json"
	FormatLines      = "lines"
	FormatCabean     = "cabean"
	FormatAlgoReCell = "algorecell"
)

var parsers = map[string]Parser{
	FormatJSON:       ParseJSON,
	FormatLines:      ParseLines,
	FormatCabean:     ParseCabean,
	FormatAlgoReCell: ParseAlgoReCell,
}

// ParserFor returns the parser of a format name. "" means json.
func ParserFor(format string) (Parser, error) {
	if format == "" {
		format = FormatJSON
	}
	p, ok := parsers[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	return p, nil
}

// ParseJSON decodes a JSON array of {variable: 0|1} objects.
func ParseJSON(out []byte) ([]control.Intervention, error) {
	items, err := control.DecodeInterventions(out)
	if err != nil {
		return nil, &ParseError{Format: FormatJSON, Msg: err.Error(), Err: err}
	}
	return items, nil
}

// ParseLines decodes one intervention per non-blank line, written as
// "a=1 b=0" or "a=1,b=0". A line holding only "{}" is the empty intervention.
// Lines starting with "#" are comments.
func ParseLines(out []byte) ([]control.Intervention, error) {
	var items []control.Intervention
	sc := bufio.NewScanner(bytes.NewReader(out))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "{}" {
			items = append(items, control.Intervention{})
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
		p, err := assignments(fields, false)
		if err != nil {
			return nil, &ParseError{Format: FormatLines, Line: n, Msg: err.Error(), Err: err}
		}
		items = append(items, p)
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{Format: FormatLines, Msg: err.Error(), Err: err}
	}
	return items, nil
}

// ParseCabean decodes the report of CABEAN's decomposition-based control.
// Everything before the line containing "DECOMP" is attractor listing and is
// skipped. Each "control set" line then holds one intervention as
// whitespace-separated "node=value" tokens. "Error:" lines mean no attractor
// matched the target and contribute nothing.
func ParseCabean(out []byte) ([]control.Intervention, error) {
	items := []control.Intervention{}
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	found := false
	n := 0
	for sc.Scan() {
		n++
		if strings.Contains(sc.Text(), "DECOMP") {
			found = true
			break
		}
	}
	if !found {
		if err := sc.Err(); err != nil {
			return nil, &ParseError{Format: FormatCabean, Msg: err.Error(), Err: err}
		}
		return nil, &ParseError{Format: FormatCabean, Msg: "missing DECOMP section"}
	}

	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(strings.ToLower(line), "control set") {
			continue
		}
		p, err := assignments(strings.Fields(line), true)
		if err != nil {
			return nil, &ParseError{Format: FormatCabean, Line: n, Msg: err.Error(), Err: err}
		}
		items = append(items, p)
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{Format: FormatCabean, Msg: err.Error(), Err: err}
	}
	return items, nil
}

var permanentPerturbation = regexp.MustCompile(`PermanentPerturbation\(([^)]*)\)`)

// ParseAlgoReCell extracts every "PermanentPerturbation(a=1, b=0)" term of
// an AlgoReCell strategy listing. Other text is ignored.
func ParseAlgoReCell(out []byte) ([]control.Intervention, error) {
	terms := permanentPerturbation.FindAllSubmatch(out, -1)
	raw := make([]map[string]int, 0, len(terms))
	for _, m := range terms {
		vals, err := assignmentMap(strings.Split(string(m[1]), ", "), true)
		if err != nil {
			return nil, &ParseError{Format: FormatAlgoReCell, Msg: err.Error(), Err: err}
		}
		raw = append(raw, vals)
	}
	items, err := control.FromMaps(raw)
	if err != nil {
		return nil, &ParseError{Format: FormatAlgoReCell, Msg: err.Error(), Err: err}
	}
	return items, nil
}

// assignments builds an intervention from "var=value" tokens. With lenient
// set, tokens without "=" are skipped instead of rejected.
func assignments(tokens []string, lenient bool) (control.Intervention, error) {
	m, err := assignmentMap(tokens, lenient)
	if err != nil {
		return control.Intervention{}, err
	}
	return control.NewIntervention(m)
}

func assignmentMap(tokens []string, lenient bool) (map[string]int, error) {
	m := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		name, value, ok := strings.Cut(tok, "=")
		if !ok {
			if lenient || tok == "" {
				continue
			}
			return nil, fmt.Errorf("token %q is not var=value", tok)
		}
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("token %q: value is not an integer", tok)
		}
		m[strings.TrimSpace(name)] = v
	}
	return m, nil
}
