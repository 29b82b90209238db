package att

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/cockroachdb/errors"
)

const (
	tapesHeader = "# tapes:"
	altHeader   = "# alt:"
)

// Reader decodes consecutive transducers from a stream.
type Reader struct {
	scanner   *bufio.Scanner
	line      int
	maxStates int
}

// Option configures a Reader.
type Option func(*Reader)

// WithMaxStates rejects any transducer that numbers a state at or above n with
// domain.ErrResourceExhausted. States are allocated up to the highest number seen, so
// set this for untrusted input. Zero means no limit.
func WithMaxStates(n int) Option {
	return func(r *Reader) {
		r.maxStates = n
	}
}

// NewReader wraps r.
func NewReader(r io.Reader, opts ...Option) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	rd := &Reader{scanner: sc}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Read decodes a single transducer from r.
func Read(r io.Reader, opts ...Option) (*fst.Transducer, error) {
	return NewReader(r, opts...).Next()
}

// ReadAll decodes every transducer in r.
func ReadAll(r io.Reader, opts ...Option) ([]*fst.Transducer, error) {
	rd := NewReader(r, opts...)
	var out []*fst.Transducer
	for {
		t, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
}

type record struct {
	line   int
	fields []string
}

// Next decodes the next transducer. It returns io.EOF when the stream holds no more
// transitions or finals.
func (r *Reader) Next() (*fst.Transducer, error) {
	var (
		headers [][]string
		lines   []record
	)
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimRight(r.scanner.Text(), "\r")
		if strings.HasPrefix(text, "#") {
			headers = append(headers, splitHeader(text))
			continue
		}
		fields := split(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) == 1 && isSeparator(fields[0]) {
			break
		}
		lines = append(lines, record{line: r.line, fields: fields})
	}
	if err := r.scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading att")
	}
	if len(lines) == 0 && len(headers) == 0 {
		return nil, io.EOF
	}
	return build(headers, lines, r.maxStates)
}

func build(headers [][]string, lines []record, maxStates int) (*fst.Transducer, error) {
	var names []string
	var alts [][2]string
	for _, h := range headers {
		switch h[0] {
		case tapesHeader:
			names = append(names, h[1:]...)
		case altHeader:
			if len(h) == 3 {
				alts = append(alts, [2]string{h[1], h[2]})
			}
		}
	}

	var first []string
	if len(lines) > 0 {
		first = lines[0].fields
	}
	tapes := len(names)
	weighted := false
	switch {
	case len(names) > 0:
		switch len(first) {
		case 0, tapes + 2, 1:
		case tapes + 3, 2:
			weighted = true
		default:
			return nil, errors.Wrapf(domain.ErrMalformedInput, "line %d: header names %d tapes, line has %d columns",
				lines[0].line, len(names), len(first))
		}
	case len(lines) == 0:
		return nil, io.EOF
	case len(first) < 3:
		return nil, errors.Wrapf(domain.ErrMalformedInput, "line %d: first line must be a transition", lines[0].line)
	default:
		tapes = len(first) - 2
		if len(first) >= 4 && isNumber(first[len(first)-1]) {
			weighted = true
			tapes--
		}
		for i := range tapes {
			names = append(names, fst.DefaultTapeName(i))
		}
	}

	t := fst.New(tapes)
	table := t.Symbols()
	transitionLen, finalLen := tapes+2, 1
	if weighted {
		transitionLen++
		finalLen++
	}
	for _, rec := range lines {
		f := rec.fields
		switch len(f) {
		case transitionLen:
			src, err := state(t, f[0], rec.line, maxStates)
			if err != nil {
				return nil, err
			}
			dst, err := state(t, f[1], rec.line, maxStates)
			if err != nil {
				return nil, err
			}
			tr := fst.Epsilon(tapes, 0)
			if weighted {
				if tr.Weight, err = weight(f[len(f)-1], rec.line); err != nil {
					return nil, err
				}
			}
			for i := range tapes {
				if tr.Symbols[i], err = table.ParseToken(f[i+2]); err != nil {
					return nil, errors.Wrapf(err, "line %d", rec.line)
				}
			}
			if err := t.InsertTransition(src, dst, tr); err != nil {
				return nil, errors.Wrapf(err, "line %d", rec.line)
			}
		case finalLen:
			s, err := state(t, f[0], rec.line, maxStates)
			if err != nil {
				return nil, err
			}
			w := 0.0
			if weighted {
				if w, err = weight(f[1], rec.line); err != nil {
					return nil, err
				}
			}
			t.SetFinal(s, w)
		default:
			return nil, errors.Wrapf(domain.ErrMalformedInput, "line %d: expected %d or %d columns, got %d",
				rec.line, transitionLen, finalLen, len(f))
		}
	}

	for i, name := range names {
		if err := t.SetTapeInfo(name, fst.TapeInfo{Index: i}); err != nil {
			return nil, err
		}
	}
	for _, alt := range alts {
		info, ok := t.TapeInfo(alt[0])
		if !ok {
			return nil, errors.Wrapf(domain.ErrMalformedInput, "alternative name %q for unknown tape %q", alt[1], alt[0])
		}
		if err := t.SetTapeInfo(alt[1], info); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// state parses a state number, allocating states up to it.
func state(t *fst.Transducer, s string, line, maxStates int) (fst.StateID, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.Wrapf(domain.ErrMalformedInput, "line %d: bad state %q", line, s)
	}
	if maxStates > 0 && n >= maxStates {
		return 0, errors.Wrapf(domain.ErrResourceExhausted, "line %d: state %d exceeds the limit of %d states", line, n, maxStates)
	}
	for t.Size() <= n {
		t.AddState()
	}
	return fst.StateID(n), nil
}

func weight(s string, line int) (float64, error) {
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(domain.ErrMalformedInput, "line %d: bad weight %q", line, s)
	}
	return w, nil
}

// split separates columns by tabs. Lines without a tab are split on runs of spaces,
// which keeps hand-written files readable.
func split(line string) []string {
	if !strings.Contains(line, "\t") {
		return strings.Fields(line)
	}
	fields := strings.Split(line, "\t")
	if fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

func splitHeader(line string) []string {
	if strings.Contains(line, "\t") {
		return split(line)
	}
	// "# tapes: a b" written without tabs.
	for _, prefix := range []string{tapesHeader, altHeader} {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return append([]string{prefix}, strings.Fields(rest)...)
		}
	}
	return []string{line}
}

func isSeparator(s string) bool {
	return s != "" && strings.Trim(s, "-") == ""
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c != '.' && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
