package engine

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"Deckwright/internal/calc/beam"
	"Deckwright/internal/calc/cantilever"
	"Deckwright/internal/calc/compliance"
	"Deckwright/internal/calc/deck"
	"Deckwright/internal/calc/hardware"
	"Deckwright/internal/calc/joist"
	"Deckwright/internal/calc/layout"
	"Deckwright/internal/calc/lumber"
	"Deckwright/internal/calc/post"
	"Deckwright/internal/calc/takeoff"
	"Deckwright/internal/calc/validate"
	"Deckwright/internal/calcerr"
	"Deckwright/internal/pricebook"
	"Deckwright/internal/spantable"
)

// Reference is the immutable data one generation reads. Nil fields fall
// back to the embedded defaults.
type Reference struct {
	Tables spantable.Provider
	Prices *pricebook.Book
}

// Both defaults are immutable, so they are parsed once per process.
var (
	defaultTables = sync.OnceValue(spantable.Default)
	defaultPrices = sync.OnceValue(pricebook.Default)
)

func (r Reference) withDefaults() Reference {
	if r.Tables == nil {
		r.Tables = defaultTables()
	}
	if r.Prices == nil {
		r.Prices = defaultPrices()
	}
	return r
}

// Engine turns deck requests into framed, priced and checked structures.
// It keeps no per-call state and is safe for concurrent use.
type Engine struct {
	optimizer cantilever.Optimizer
	checker   *compliance.Checker
	log       *zap.Logger
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithOptimizer(o cantilever.Optimizer) Option {
	return func(e *Engine) {
		if o != nil {
			e.optimizer = o
		}
	}
}

func WithChecker(c *compliance.Checker) Option {
	return func(e *Engine) {
		if c != nil {
			e.checker = c
		}
	}
}

func New(opts ...Option) (*Engine, error) {
	e := &Engine{optimizer: cantilever.MinimalOverhang{}, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.checker == nil {
		c, err := compliance.NewChecker()
		if err != nil {
			return nil, err
		}
		e.checker = c
	}
	return e, nil
}

// Validate checks a raw request and returns it typed, or an INVALID_INPUT
// error carrying every field problem.
func Validate(in deck.Input) (deck.Request, error) {
	req, fields := validate.Validate(in)
	if len(fields) > 0 {
		return deck.Request{}, calcerr.Invalid(fields)
	}
	return req, nil
}

// Generate validates in and designs the structure. No partial result is
// returned on failure.
func (e *Engine) Generate(in deck.Input, ref Reference) (deck.Result, error) {
	req, err := Validate(in)
	if err != nil {
		return deck.Result{}, err
	}
	return e.Design(req, ref)
}

// Design runs selection on an already validated request.
func (e *Engine) Design(req deck.Request, ref Reference) (deck.Result, error) {
	ref = ref.withDefaults()
	req = layout.ResolveBeamStyles(req)
	plan := layout.Orient(req.WidthFt, req.LengthFt)

	joists, err := joist.Select(joist.Input{
		SpanFt:          plan.JoistSpanFt,
		LongDimensionFt: plan.BeamSpanFt,
		Orientation:     plan.Orientation,
		Species:         req.SpeciesGrade,
		ForcedSpacingIn: req.ForcedJoistSpacingIn,
		Decking:         req.DeckingType,
		OuterBeamStyle:  req.BeamStyleOuter,
		Footing:         req.FootingType,
		Goal:            req.OptimizationGoal,
	}, ref.Tables, ref.Prices, e.optimizer)
	if err != nil {
		return deck.Result{}, err
	}

	beams, err := e.selectBeams(req, plan, ref)
	if err != nil {
		return deck.Result{}, err
	}

	posts, err := post.Generate(post.Input{
		Beams:           beams,
		HeightFt:        req.HeightFt,
		Footing:         req.FootingType,
		DeckDimensionFt: plan.JoistSpanFt,
		CantileverFt:    joists.CantileverFt,
	})
	if err != nil {
		return deck.Result{}, err
	}

	frame := deck.Frame{Request: req, Joists: joists, Beams: beams, Posts: posts}
	to, err := takeoff.Generate(frame, ref.Prices, e.log)
	if err != nil {
		return deck.Result{}, err
	}
	report := e.checker.Check(frame, ref.Tables, hardware.ValidateCompliance(frame, to.Hardware))

	e.log.Debug("deck framed",
		zap.String("joist_size", joists.Size),
		zap.Int("joist_spacing_in", joists.SpacingIn),
		zap.Float64("cantilever_ft", joists.CantileverFt),
		zap.Int("beams", len(beams)),
		zap.Int("posts", len(posts)),
		zap.Bool("passes", report.Passes),
	)

	return deck.Result{
		Input:            req,
		OptimizationGoal: req.OptimizationGoal,
		Joists:           joists,
		Beams:            beams,
		Posts:            posts,
		MaterialTakeoff:  to.Items,
		Metrics:          goalMetrics(req.OptimizationGoal, frame, to),
		Compliance:       report,
	}, nil
}

// selectBeams returns the house-side support first, then the outer beam.
func (e *Engine) selectBeams(req deck.Request, plan layout.Plan, ref Reference) ([]deck.BeamSpec, error) {
	in := beam.Input{
		SpanFt:      plan.BeamSpanFt,
		JoistSpanFt: plan.JoistSpanFt,
		HeightFt:    req.HeightFt,
		Species:     req.SpeciesGrade,
		Footing:     req.FootingType,
	}

	var inner deck.BeamSpec
	if req.Attachment == deck.AttachLedger {
		inner = beam.Ledger(plan.BeamSpanFt)
	} else {
		in.Position, in.Style = deck.PositionInner, req.BeamStyleInner
		b, err := beam.Select(in, ref.Tables, ref.Prices)
		if err != nil {
			return nil, err
		}
		inner = b
	}

	in.Position, in.Style = deck.PositionOuter, req.BeamStyleOuter
	outer, err := beam.Select(in, ref.Tables, ref.Prices)
	if err != nil {
		return nil, err
	}
	return []deck.BeamSpec{inner, outer}, nil
}

func goalMetrics(goal deck.Goal, f deck.Frame, to takeoff.Takeoff) deck.Metrics {
	if goal == deck.GoalStrength {
		reserve := f.Joists.Reserve()
		for _, b := range f.StructuralBeams() {
			reserve = math.Min(reserve, b.Reserve())
		}
		reserve = math.Round(reserve*1e4) / 1e4
		return deck.Metrics{MinReserveCapacity: &reserve}
	}
	bf := to.TotalBoardFeet
	return deck.Metrics{TotalBoardFeet: &bf}
}

// RequiredPrices lists every price key a generation may look up.
func RequiredPrices() []pricebook.Requirement {
	var out []pricebook.Requirement
	seen := map[string]bool{}
	addLumber := func(sizes []string) {
		for _, s := range sizes {
			if !seen[s] {
				seen[s] = true
				out = append(out, pricebook.Requirement{Category: deck.CategoryLumber, Key: s})
			}
		}
	}
	addLumber(lumber.JoistSizes)
	addLumber(lumber.BeamDimensions)
	addLumber(lumber.PostSizes)

	models := hardware.Models()
	sort.Strings(models)
	for _, m := range models {
		out = append(out, pricebook.Requirement{Category: deck.CategoryHardware, Key: m})
	}
	for _, f := range deck.Footings {
		out = append(out, pricebook.Requirement{Category: deck.CategoryFootings, Key: string(f)})
	}
	for _, p := range []hardware.Pack{hardware.NailPack, hardware.ScrewPack} {
		out = append(out, pricebook.Requirement{Category: deck.CategoryFasteners, Key: p.Key})
	}
	return out
}

// CheckPrices reports missing keys in a price book before it is used.
func CheckPrices(b *pricebook.Book) error {
	if err := b.Validate(RequiredPrices()); err != nil {
		return fmt.Errorf("price book incomplete: %w", err)
	}
	return nil
}
