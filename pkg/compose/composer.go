package compose

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/symbols"
	"github.com/cockroachdb/errors"
)

// Glue names a tape of the left transducer and a tape of the right transducer
// whose values must agree.
type Glue struct {
	Left  string `json:"left" yaml:"left"`
	Right string `json:"right" yaml:"right"`
}

// String renders the pair as "left:right".
func (g Glue) String() string {
	return g.Left + ":" + g.Right
}

// ParseGlue parses a "left:right" pair.
func ParseGlue(s string) (Glue, error) {
	left, right, ok := strings.Cut(s, ":")
	if !ok || left == "" || right == "" {
		return Glue{}, errors.Wrapf(domain.ErrMalformedInput, "glue %q is not of the form left:right", s)
	}
	return Glue{Left: left, Right: right}, nil
}

// Composer holds the setup of one composition. Run may be called repeatedly; each call
// returns a fresh transducer.
type Composer struct {
	a, b *fst.Transducer
	glue []Glue

	flagsAsEpsilon bool
	maxStates      int
	maxBacklog     int
	logger         *slog.Logger
	hooks          domain.ComposeHooks

	tapeCount   int
	placement   []int
	gluedLeft   []bool
	gluedRight  []int
	tapeNames   []string
	tapeInfos   map[string]fst.TapeInfo
	alphabet    *symbols.Table
	leftRename  symbols.Renaming
	rightRename symbols.Renaming
	leftEps     fst.Transition
	rightEps    fst.Transition
}

// New validates the glue pairs and prepares the composition of a and b.
func New(a, b *fst.Transducer, glue []Glue, opts ...Option) (*Composer, error) {
	c := &Composer{
		a:      a,
		b:      b,
		glue:   glue,
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	if len(glue) > a.TapeCount() || len(glue) > b.TapeCount() {
		return nil, errors.Wrapf(domain.ErrTooManyGlueTapes, "%d glue pairs for transducers with %d and %d tapes",
			len(glue), a.TapeCount(), b.TapeCount())
	}
	if err := c.place(); err != nil {
		return nil, err
	}
	c.mergeTapeNames()
	if err := c.mergeAlphabets(); err != nil {
		return nil, err
	}
	c.leftEps = fst.Epsilon(a.TapeCount(), 0)
	c.rightEps = fst.Epsilon(b.TapeCount(), 0)

	c.logger.Debug("composition prepared",
		"left_tapes", a.TapeCount(),
		"right_tapes", b.TapeCount(),
		"output_tapes", c.tapeCount,
		"glue", len(glue),
		"symbols", c.alphabet.Len())
	return c, nil
}

// Compose is New followed by Run.
func Compose(ctx context.Context, a, b *fst.Transducer, glue []Glue, opts ...Option) (*fst.Transducer, error) {
	c, err := New(a, b, glue, opts...)
	if err != nil {
		return nil, err
	}
	return c.Run(ctx)
}

// TapeCount is the number of tapes of the output.
func (c *Composer) TapeCount() int {
	return c.tapeCount
}

// Placement returns, for every tape of the right transducer, its index in the output.
func (c *Composer) Placement() []int {
	return append([]int(nil), c.placement...)
}

func (c *Composer) place() error {
	m, n := c.a.TapeCount(), c.b.TapeCount()
	c.placement = make([]int, n)
	for i := range c.placement {
		c.placement[i] = -1
	}
	c.gluedLeft = make([]bool, m)

	for _, g := range c.glue {
		left, ok := c.a.TapeInfo(g.Left)
		if !ok {
			return errors.Wrapf(domain.ErrUnknownTape, "left transducer has no tape %q", g.Left)
		}
		right, ok := c.b.TapeInfo(g.Right)
		if !ok {
			return errors.Wrapf(domain.ErrUnknownTape, "right transducer has no tape %q", g.Right)
		}
		if c.placement[right.Index] >= 0 {
			return errors.Wrapf(domain.ErrDuplicateGlue, "right tape %q is glued twice", g.Right)
		}
		if c.gluedLeft[left.Index] {
			return errors.Wrapf(domain.ErrDuplicateGlue, "left tape %q is glued twice", g.Left)
		}
		c.placement[right.Index] = left.Index
		c.gluedLeft[left.Index] = true
		c.gluedRight = append(c.gluedRight, right.Index)
	}

	next := m
	for i, loc := range c.placement {
		if loc < 0 {
			c.placement[i] = next
			next++
		}
	}
	c.tapeCount = next
	return nil
}

func (c *Composer) mergeTapeNames() {
	c.tapeInfos = c.a.TapeInfos()
	c.tapeNames = c.a.TapeNames()
	register := func(name string, info fst.TapeInfo) {
		c.tapeNames = append(c.tapeNames, name)
		c.tapeInfos[name] = info
	}

	for _, g := range c.glue {
		left, _ := c.a.TapeInfo(g.Left)
		right, _ := c.b.TapeInfo(g.Right)
		existing, ok := c.tapeInfos[g.Right]
		switch {
		case !ok:
			register(g.Right, fst.TapeInfo{Index: left.Index, Flags: left.Flags | right.Flags})
		case existing.Index == left.Index:
			existing.Flags |= right.Flags
			c.tapeInfos[g.Right] = existing
		}
	}
	for _, name := range c.b.TapeNames() {
		if _, ok := c.tapeInfos[name]; ok {
			continue
		}
		info, _ := c.b.TapeInfo(name)
		register(name, fst.TapeInfo{Index: c.placement[info.Index], Flags: info.Flags})
	}
}

func (c *Composer) mergeAlphabets() error {
	c.alphabet = symbols.NewTable()
	c.leftRename = c.alphabet.Merge(c.a.Symbols())
	c.rightRename = c.alphabet.Merge(c.b.Symbols())
	if err := c.alphabet.ImportExpansions(c.a.Symbols(), c.leftRename, true); err != nil {
		return errors.Wrap(err, "left alphabet")
	}
	if err := c.alphabet.ImportExpansions(c.b.Symbols(), c.rightRename, true); err != nil {
		return errors.Wrap(err, "right alphabet")
	}
	return nil
}

// composeTransition combines a transition of each side, stepping the backlogs in
// place. It reports false when the glued tapes cannot be reconciled.
func (c *Composer) composeTransition(left, right fst.Transition, lb, rb backlog) (fst.Transition, bool) {
	out := fst.Transition{
		Symbols: make([]symbols.Symbol, c.tapeCount),
		Weight:  left.Weight + right.Weight,
	}
	for i, sym := range left.Symbols {
		out.Symbols[i] = lb.step(i, c.leftRename.Apply(sym))
	}

	leftTapes := len(left.Symbols)
	for i, sym := range right.Symbols {
		rsym := rb.step(i, c.rightRename.Apply(sym))
		loc := c.placement[i]
		if loc >= leftTapes {
			out.Symbols[loc] = rsym
			continue
		}
		lsym := out.Symbols[loc]
		switch {
		case rsym == lsym:
		case c.alphabet.IsEpsilon(lsym, c.flagsAsEpsilon):
			// The left side has nothing yet; retry rsym later.
			if rsym != symbols.Epsilon {
				rb.pushFront(i, rsym)
			}
		case c.alphabet.IsEpsilon(rsym, c.flagsAsEpsilon):
			// rsym may be a flag, which has to survive into the output.
			lb.pushFront(loc, lsym)
			out.Symbols[loc] = rsym
		case c.unionContains(rsym, lsym):
		case c.unionContains(lsym, rsym):
			out.Symbols[loc] = rsym
		default:
			return fst.Transition{}, false
		}
	}
	return out, true
}

func (c *Composer) unionContains(set, sym symbols.Symbol) bool {
	if !c.alphabet.IsDefined(set) {
		return false
	}
	u, ok := c.alphabet.Lookup(set).(symbols.Union)
	return ok && u.Contains(sym)
}

// rightGlueEpsilon reports whether tr is epsilon on every glued tape of the right side.
func (c *Composer) rightGlueEpsilon(tr fst.Transition) bool {
	for _, i := range c.gluedRight {
		if !c.alphabet.IsEpsilon(c.rightRename.Apply(tr.Symbols[i]), c.flagsAsEpsilon) {
			return false
		}
	}
	return true
}

// leftGlueEpsilon reports whether tr is epsilon on every glued tape of the left side.
func (c *Composer) leftGlueEpsilon(tr fst.Transition) bool {
	for i, glued := range c.gluedLeft {
		if glued && !c.alphabet.IsEpsilon(c.leftRename.Apply(tr.Symbols[i]), c.flagsAsEpsilon) {
			return false
		}
	}
	return true
}

// overlapping reports whether some glued tape has pending symbols on both sides.
func (c *Composer) overlapping(p *product) bool {
	for _, i := range c.gluedRight {
		if len(p.left[c.placement[i]]) > 0 && len(p.right[i]) > 0 {
			return true
		}
	}
	return false
}

// Run traverses the product of both inputs and returns the composed transducer.
func (c *Composer) Run(ctx context.Context) (*fst.Transducer, error) {
	out := fst.NewWithSymbols(c.tapeCount, c.alphabet.Clone())
	if err := out.SetTapeInfos(c.tapeNames, c.tapeInfos); err != nil {
		return nil, errors.NewAssertionErrorWithWrappedErrf(err, "merged tape names")
	}

	r := &run{
		Composer: c,
		ctx:      ctx,
		out:      out,
		memo:     make(map[memoKey]fst.StateID),
	}
	started := time.Now()
	event := &domain.ComposeEvent{
		EventBase:   domain.EventBase{Timestamp: started, Type: domain.EventComposeStart},
		LeftTapes:   c.a.TapeCount(),
		RightTapes:  c.b.TapeCount(),
		OutputTapes: c.tapeCount,
		Glue:        len(c.glue),
	}
	if c.hooks.OnStart != nil {
		c.hooks.OnStart(ctx, event)
	}

	err := r.traverse()

	finish := *event
	finish.EventBase = domain.EventBase{Timestamp: time.Now(), Type: domain.EventComposeFinish}
	finish.States = out.Size()
	finish.Transitions = out.TransitionCount()
	finish.Finals = len(out.Finals())
	finish.Rejected = r.rejected
	finish.Duration = time.Since(started)
	finish.Err = err
	if c.hooks.OnFinish != nil {
		c.hooks.OnFinish(ctx, &finish)
	}

	if err != nil {
		c.logger.Warn("composition failed", "err", err, "states", finish.States)
		return nil, err
	}
	c.logger.Info("composition finished",
		"states", finish.States,
		"transitions", finish.Transitions,
		"finals", finish.Finals,
		"rejected", finish.Rejected,
		"duration", finish.Duration)
	return out, nil
}

type run struct {
	*Composer
	ctx      context.Context
	out      *fst.Transducer
	memo     map[memoKey]fst.StateID
	queue    []*product
	rejected int
}

func (r *run) traverse() error {
	start := &product{
		a:     fst.Initial,
		b:     fst.Initial,
		left:  newBacklog(r.a.TapeCount()),
		right: newBacklog(r.b.TapeCount()),
		out:   fst.Initial,
	}
	r.memo[start.key()] = start.out
	r.queue = append(r.queue, start)

	for len(r.queue) > 0 {
		if err := r.ctx.Err(); err != nil {
			return errors.Wrap(err, "composition interrupted")
		}
		cur := r.queue[0]
		r.queue[0] = nil
		r.queue = r.queue[1:]
		if err := r.expand(cur); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) expand(cur *product) error {
	if r.overlapping(cur) {
		_, err := r.try(cur, r.leftEps, r.rightEps, cur.a, cur.b)
		return err
	}

	lempty, rempty := cur.left.empty(), cur.right.empty()
	if lempty && rempty {
		wa, aFinal := r.a.FinalWeight(cur.a)
		wb, bFinal := r.b.FinalWeight(cur.b)
		if aFinal && bFinal {
			r.out.SetFinal(cur.out, wa+wb)
		}
	}

	var candidates []fst.Edge
	for _, eb := range r.b.Edges(cur.b) {
		if !lempty || r.rightGlueEpsilon(eb.Transition) {
			ok, err := r.try(cur, r.leftEps, eb.Transition, cur.a, eb.Target)
			if err != nil {
				return err
			}
			if ok {
				continue
			}
		}
		candidates = append(candidates, eb)
	}

	for _, ea := range r.a.Edges(cur.a) {
		if !rempty || r.leftGlueEpsilon(ea.Transition) {
			ok, err := r.try(cur, ea.Transition, r.rightEps, ea.Target, cur.b)
			if err != nil {
				return err
			}
			if ok {
				continue
			}
		}
		for _, eb := range candidates {
			if _, err := r.try(cur, ea.Transition, eb.Transition, ea.Target, eb.Target); err != nil {
				return err
			}
		}
	}
	return nil
}

// try composes one pair of transitions from cur and records the result.
func (r *run) try(cur *product, left, right fst.Transition, a, b fst.StateID) (bool, error) {
	next := &product{a: a, b: b, left: cur.left.clone(), right: cur.right.clone()}
	tr, ok := r.composeTransition(left, right, next.left, next.right)
	if !ok {
		r.rejected++
		if r.hooks.OnPairRejected != nil {
			r.hooks.OnPairRejected(r.ctx, r.stateEvent(domain.EventPairRejected, cur))
		}
		return false, nil
	}
	return true, r.insert(cur, next, tr)
}

func (r *run) insert(cur, next *product, tr fst.Transition) error {
	key := next.key()
	if dst, ok := r.memo[key]; ok {
		if err := r.out.InsertTransition(cur.out, dst, tr); err != nil {
			return errors.NewAssertionErrorWithWrappedErrf(err, "folding into state %d", dst)
		}
		return nil
	}

	if r.maxBacklog > 0 {
		if d := max(next.left.depth(), next.right.depth()); d > r.maxBacklog {
			return errors.Wrapf(domain.ErrResourceExhausted, "backlog of %d symbols exceeds %d", d, r.maxBacklog)
		}
	}
	if r.maxStates > 0 && r.out.Size() >= r.maxStates {
		return errors.Wrapf(domain.ErrResourceExhausted, "output exceeds %d states", r.maxStates)
	}

	dst, err := r.out.InsertTransitionNew(cur.out, tr, false)
	if err != nil {
		return errors.NewAssertionErrorWithWrappedErrf(err, "extending state %d", cur.out)
	}
	next.out = dst
	r.memo[key] = dst
	r.queue = append(r.queue, next)
	if r.hooks.OnStateAdded != nil {
		r.hooks.OnStateAdded(r.ctx, r.stateEvent(domain.EventStateAdded, next))
	}
	return nil
}

func (r *run) stateEvent(typ domain.EventType, p *product) *domain.StateEvent {
	return &domain.StateEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: typ},
		Left:       int(p.a),
		Right:      int(p.b),
		Output:     int(p.out),
		Backlog:    p.left.size() + p.right.size(),
		QueueDepth: len(r.queue),
	}
}
