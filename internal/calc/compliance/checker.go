package compliance

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"Deckwright/internal/calc/deck"
	"Deckwright/internal/spantable"
)

// Scope says which member a rule is evaluated against.
type Scope int

const (
	ScopeJoist Scope = iota
	ScopeBeam
)

// Rule is a code check written as a CEL expression that is true when the
// member complies. Describe renders the warning for a failed check.
type Rule struct {
	ID         string
	Scope      Scope
	Expression string
	Describe   func(Facts) string
}

type JoistFacts struct {
	Size         string
	SpacingIn    float64
	BackSpanFt   float64
	CantileverFt float64
	AllowableFt  float64
}

type BeamFacts struct {
	Position      deck.Position
	Size          string
	PostSpacingFt float64
	AllowableFt   float64
}

type DeckingFacts struct {
	Type         deck.Decking
	MaxSpacingIn float64
}

// Facts are the values a rule sees. Allowable spans are looked up again
// from the tables, never copied from the selected members.
type Facts struct {
	Joist   JoistFacts
	Beam    BeamFacts
	Decking DeckingFacts
}

func (f Facts) activation() map[string]any {
	return map[string]any{
		"joist": map[string]any{
			"size":          f.Joist.Size,
			"spacing_in":    f.Joist.SpacingIn,
			"back_span_ft":  f.Joist.BackSpanFt,
			"cantilever_ft": f.Joist.CantileverFt,
			"allowable_ft":  f.Joist.AllowableFt,
		},
		"beam": map[string]any{
			"position":        string(f.Beam.Position),
			"size":            f.Beam.Size,
			"post_spacing_ft": f.Beam.PostSpacingFt,
			"allowable_ft":    f.Beam.AllowableFt,
		},
		"decking": map[string]any{
			"type":           string(f.Decking.Type),
			"max_spacing_in": f.Decking.MaxSpacingIn,
		},
	}
}

var DefaultRules = []Rule{
	{
		ID:         "decking-spacing",
		Scope:      ScopeJoist,
		Expression: `joist.spacing_in <= decking.max_spacing_in`,
		Describe: func(f Facts) string {
			return fmt.Sprintf("joist spacing %.0f in exceeds %.0f in maximum for %s decking",
				f.Joist.SpacingIn, f.Decking.MaxSpacingIn, f.Decking.Type)
		},
	},
	{
		ID:         "cantilever-quarter-backspan",
		Scope:      ScopeJoist,
		Expression: `joist.cantilever_ft <= 0.25 * joist.back_span_ft + 0.000001`,
		Describe: func(f Facts) string {
			return fmt.Sprintf("cantilever %.2f ft exceeds one quarter of %.2f ft back-span",
				f.Joist.CantileverFt, f.Joist.BackSpanFt)
		},
	},
	{
		ID:         "joist-span",
		Scope:      ScopeJoist,
		Expression: `joist.back_span_ft <= joist.allowable_ft + 0.000001`,
		Describe: func(f Facts) string {
			return fmt.Sprintf("%s joists at %.0f in: back-span %.2f ft exceeds allowable %.2f ft",
				f.Joist.Size, f.Joist.SpacingIn, f.Joist.BackSpanFt, f.Joist.AllowableFt)
		},
	},
	{
		ID:         "beam-post-spacing",
		Scope:      ScopeBeam,
		Expression: `beam.post_spacing_ft <= beam.allowable_ft + 0.000001`,
		Describe: func(f Facts) string {
			return fmt.Sprintf("%s beam %s: post spacing %.2f ft exceeds allowable %.2f ft",
				f.Beam.Position, f.Beam.Size, f.Beam.PostSpacingFt, f.Beam.AllowableFt)
		},
	},
}

type compiled struct {
	Rule
	prog cel.Program
}

// Checker holds compiled rules and is safe for concurrent use.
type Checker struct {
	rules []compiled
}

func NewChecker() (*Checker, error) {
	return NewCheckerWithRules(DefaultRules)
}

func NewCheckerWithRules(rules []Rule) (*Checker, error) {
	env, err := cel.NewEnv(
		cel.Variable("joist", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("beam", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("decking", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	c := &Checker{}
	for _, r := range rules {
		ast, issues := env.Compile(r.Expression)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("rule %s: compile error: %w", r.ID, issues.Err())
		}
		prog, err := env.Program(ast, cel.CostLimit(10000))
		if err != nil {
			return nil, fmt.Errorf("rule %s: program creation error: %w", r.ID, err)
		}
		c.rules = append(c.rules, compiled{Rule: r, prog: prog})
	}
	return c, nil
}

// Check re-derives allowable spans for the frame and reports every
// violation, followed by extra warnings such as hardware shortfalls.
func (c *Checker) Check(f deck.Frame, tables spantable.Provider, extra []string) deck.ComplianceReport {
	warnings := []string{}
	req := f.Request
	j := f.Joists

	facts := Facts{Joist: JoistFacts{
		Size:         j.Size,
		SpacingIn:    float64(j.SpacingIn),
		BackSpanFt:   j.BackSpanFt,
		CantileverFt: j.CantileverFt,
	}}
	lookups := true
	if max, err := tables.MaxDeckingSpacing(req.DeckingType); err != nil {
		warnings = append(warnings, fmt.Sprintf("cannot verify decking spacing: %v", err))
		lookups = false
	} else {
		facts.Decking = DeckingFacts{Type: req.DeckingType, MaxSpacingIn: float64(max)}
	}
	if allow, err := tables.AllowableJoistSpan(req.SpeciesGrade, j.Size, j.SpacingIn); err != nil {
		warnings = append(warnings, fmt.Sprintf("cannot verify joist span: %v", err))
		lookups = false
	} else {
		facts.Joist.AllowableFt = allow
	}
	if lookups {
		warnings = append(warnings, c.eval(ScopeJoist, facts)...)
	}

	key, keyOK := spantable.RoundJoistSpan(j.SpanFt)
	for _, b := range f.StructuralBeams() {
		if !keyOK {
			warnings = append(warnings, fmt.Sprintf("cannot verify %s beam: joist span %.2f ft is beyond the beam table", b.Position, j.SpanFt))
			continue
		}
		allow, err := tables.AllowableBeamSpan(req.SpeciesGrade, b.Size, key)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("cannot verify %s beam: %v", b.Position, err))
			continue
		}
		facts.Beam = BeamFacts{Position: b.Position, Size: b.Size, PostSpacingFt: b.PostSpacingFt, AllowableFt: allow}
		warnings = append(warnings, c.eval(ScopeBeam, facts)...)
	}

	warnings = append(warnings, extra...)
	return deck.ComplianceReport{
		Passes:    len(warnings) == 0,
		Citations: citations(tables.Citations()),
		Warnings:  warnings,
	}
}

func (c *Checker) eval(scope Scope, facts Facts) []string {
	var out []string
	act := facts.activation()
	for _, r := range c.rules {
		if r.Scope != scope {
			continue
		}
		val, _, err := r.prog.Eval(act)
		if err != nil {
			out = append(out, fmt.Sprintf("rule %s could not be evaluated: %v", r.ID, err))
			continue
		}
		// non-bool results count as a failed check
		if ok, isBool := val.Value().(bool); !isBool || !ok {
			if r.Describe == nil {
				out = append(out, fmt.Sprintf("rule %s failed", r.ID))
				continue
			}
			out = append(out, r.Describe(facts))
		}
	}
	return out
}

func citations(c spantable.Citations) []string {
	out := []string{}
	for _, s := range []string{c.Joists, c.Beams, c.Decking, c.Cantilever} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
