package engine

import (
	"encoding/json"
	"math"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"Deckwright/internal/calc/deck"
	"Deckwright/internal/calcerr"
	"Deckwright/internal/pricebook"
	"Deckwright/internal/spantable"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func ledgerInput() deck.Input {
	return deck.Input{
		WidthFt:          f(12),
		LengthFt:         f(16),
		HeightFt:         f(2),
		Attachment:       "ledger",
		FootingType:      "concrete",
		SpeciesGrade:     "SPF #2",
		DeckingType:      "composite_1in",
		OptimizationGoal: "cost",
	}
}

func freeInput() deck.Input {
	return deck.Input{
		WidthFt:      f(16),
		LengthFt:     f(20),
		HeightFt:     f(4),
		Attachment:   "free",
		FootingType:  "helical",
		SpeciesGrade: "DF #2",
		DeckingType:  "wood_2x",
	}
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

func structural(beams []deck.BeamSpec) []deck.BeamSpec {
	return deck.Frame{Beams: beams}.StructuralBeams()
}

func TestGenerateLedgerDeck(t *testing.T) {
	res, err := newEngine(t).Generate(ledgerInput(), Reference{})
	require.NoError(t, err)

	assert.Equal(t, deck.SpansWidth, res.Joists.Orientation)
	assert.Equal(t, 12.0, res.Joists.SpanFt)
	assert.Equal(t, "2x8", res.Joists.Size)
	assert.Equal(t, 16, res.Joists.SpacingIn)
	assert.Equal(t, 13, res.Joists.Count)
	assert.InDelta(t, 11.0/12, res.Joists.CantileverFt, 1e-9)

	require.Len(t, res.Beams, 2)
	assert.True(t, res.Beams[0].IsLedger())
	outer := structural(res.Beams)
	require.Len(t, outer, 1)
	assert.Equal(t, deck.PositionOuter, outer[0].Position)
	assert.Equal(t, deck.StyleDrop, outer[0].Style)

	require.Len(t, res.Posts, outer[0].PostCount)
	for _, p := range res.Posts {
		assert.InDelta(t, 12-11.0/12, p.YFt, 1e-9)
	}

	assert.True(t, res.Compliance.Passes, res.Compliance.Warnings)
	assert.NotEmpty(t, res.Compliance.Citations)
	assert.Equal(t, deck.GoalCost, res.OptimizationGoal)
	require.NotNil(t, res.Metrics.TotalBoardFeet)
	assert.Nil(t, res.Metrics.MinReserveCapacity)
	assert.Positive(t, *res.Metrics.TotalBoardFeet)
	assert.Equal(t, deck.StyleLedger, res.Input.BeamStyleInner)
}

func TestGenerateFreeHelicalDeck(t *testing.T) {
	res, err := newEngine(t).Generate(freeInput(), Reference{})
	require.NoError(t, err)

	require.Len(t, res.Beams, 2)
	assert.Equal(t, deck.PositionInner, res.Beams[0].Position)
	assert.Equal(t, deck.StyleInline, res.Beams[0].Style)
	assert.Equal(t, deck.PositionOuter, res.Beams[1].Position)
	assert.Equal(t, deck.StyleDrop, res.Beams[1].Style)

	assert.Equal(t, "2x12", res.Joists.Size)
	assert.Equal(t, 24, res.Joists.SpacingIn)
	assert.InDelta(t, 38.0/12, res.Joists.CantileverFt, 1e-9)

	outerY := 16 - res.Joists.CantileverFt
	for _, p := range res.Posts {
		if p.YFt != 0 {
			assert.InDelta(t, outerY, p.YFt, 1e-9)
		}
	}
	assert.Equal(t, res.Beams[0].PostCount+res.Beams[1].PostCount, len(res.Posts))
	assert.True(t, res.Compliance.Passes, res.Compliance.Warnings)
}

func TestGenerateStrengthMetric(t *testing.T) {
	in := ledgerInput()
	in.OptimizationGoal = "strength"
	res, err := newEngine(t).Generate(in, Reference{})
	require.NoError(t, err)

	require.NotNil(t, res.Metrics.MinReserveCapacity)
	assert.Nil(t, res.Metrics.TotalBoardFeet)
	want := res.Joists.Reserve()
	for _, b := range structural(res.Beams) {
		want = math.Min(want, b.Reserve())
	}
	assert.InDelta(t, want, *res.Metrics.MinReserveCapacity, 1e-4)
}

func TestGenerateRejectsInvalidInput(t *testing.T) {
	e := newEngine(t)

	in := ledgerInput()
	in.SpeciesGrade = "Cedar #1"
	_, err := e.Generate(in, Reference{})
	assert.True(t, calcerr.Is(err, calcerr.CodeInvalidInput))

	in = ledgerInput()
	in.FootingType = "surface"
	in.HeightFt = f(3)
	_, err = e.Generate(in, Reference{})
	require.True(t, calcerr.Is(err, calcerr.CodeInvalidInput))
	var ce *calcerr.Error
	require.ErrorAs(t, err, &ce)
	codes := []string{}
	for _, fe := range ce.Fields {
		codes = append(codes, fe.Code)
	}
	assert.Contains(t, codes, calcerr.FieldIllegalCombination)
}

type noSPF struct{ spantable.Provider }

func (p noSPF) AllowableJoistSpan(s deck.Species, size string, spacing int) (float64, error) {
	if s == deck.SpeciesSPF2 {
		return 0, spantable.ErrSpeciesUnknown
	}
	return p.Provider.AllowableJoistSpan(s, size, spacing)
}

func TestGenerateSelectorFailures(t *testing.T) {
	e := newEngine(t)

	_, err := e.Generate(ledgerInput(), Reference{Tables: noSPF{spantable.Default()}})
	assert.True(t, calcerr.Is(err, calcerr.CodeSpeciesUnknown))

	in := ledgerInput()
	in.WidthFt, in.LengthFt = f(30), f(30)
	_, err = e.Generate(in, Reference{})
	assert.True(t, calcerr.Is(err, calcerr.CodeSpanExceeded))

	_, err = e.Generate(ledgerInput(), Reference{Prices: pricebook.NewBuilder().Build()})
	require.Error(t, err)
	assert.Empty(t, calcerr.CodeOf(err))
}

func TestGenerateDegradesWithoutHardwarePrices(t *testing.T) {
	b := pricebook.NewBuilder()
	for size, cost := range map[string]float64{"2x6": 1.1, "2x8": 1.45, "2x10": 1.95, "2x12": 2.6, "4x4": 2.1, "6x6": 4.75} {
		require.NoError(t, b.Set(deck.CategoryLumber, size, cost))
	}
	require.NoError(t, b.Set(deck.CategoryHardware, "ABU44Z", 12.4))
	require.NoError(t, b.Set(deck.CategoryHardware, "ABU66Z", 21.8))
	require.NoError(t, b.Set(deck.CategoryFootings, "concrete", 42))

	core, logs := observer.New(zapcore.WarnLevel)
	res, err := newEngine(t, WithLogger(zap.New(core))).Generate(ledgerInput(), Reference{Prices: b.Build()})
	require.NoError(t, err)

	assert.False(t, res.Compliance.Passes)
	assert.NotEmpty(t, res.Compliance.Warnings)
	for _, it := range res.MaterialTakeoff {
		assert.NotEqual(t, deck.CategoryHardware, it.Category)
	}
	assert.Equal(t, 1, logs.Len())
}

func TestGenerateIsIdempotent(t *testing.T) {
	e := newEngine(t)
	a, err := e.Generate(freeInput(), Reference{})
	require.NoError(t, err)
	b, err := e.Generate(freeInput(), Reference{})
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
}

func TestGenerateConcurrent(t *testing.T) {
	e := newEngine(t)
	ref := Reference{Tables: spantable.Default(), Prices: pricebook.Default()}
	want, err := e.Generate(ledgerInput(), ref)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]deck.Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = e.Generate(ledgerInput(), ref)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, want, r)
	}
}

func TestGeneratedFramesHoldCodeRules(t *testing.T) {
	e := newEngine(t)
	tables := spantable.Default()
	dims := []float64{6, 8, 10, 12, 14, 16, 18, 20}
	for _, w := range dims {
		for _, l := range dims {
			for _, att := range deck.Attachments {
				for _, foot := range deck.Footings {
					for _, goal := range deck.Goals {
						in := deck.Input{
							WidthFt: f(w), LengthFt: f(l), HeightFt: f(2),
							Attachment: string(att), FootingType: string(foot),
							SpeciesGrade: "HF #2", DeckingType: "wood_5_4", OptimizationGoal: string(goal),
						}
						res, err := e.Generate(in, Reference{Tables: tables})
						if err != nil {
							assert.True(t, calcerr.Is(err, calcerr.CodeSpanExceeded), "%vx%v %s %s: %v", w, l, att, foot, err)
							continue
						}
						j := res.Joists
						assert.Contains(t, deck.Spacings, j.SpacingIn)
						assert.LessOrEqual(t, j.CantileverFt, j.SpanFt/4+1e-9)
						assert.LessOrEqual(t, j.CantileverFt, (j.SpanFt-j.CantileverFt)/4+1e-6)
						for _, b := range structural(res.Beams) {
							allow, err := tables.AllowableBeamSpan(deck.SpeciesHF2, b.Size, b.JoistSpanKey)
							require.NoError(t, err)
							assert.LessOrEqual(t, b.PostSpacingFt, allow+1e-9)
							require.Len(t, b.Segments, 1)
							assert.False(t, b.Segments[0].Spliced)
						}
						for _, p := range res.Posts {
							assert.True(t, p.YFt == 0 || math.Abs(p.YFt-(j.SpanFt-j.CantileverFt)) < 1e-9)
						}
						assert.True(t, res.Compliance.Passes, "%vx%v %s %s: %v", w, l, att, foot, res.Compliance.Warnings)
					}
				}
			}
		}
	}
}

func TestForcedSpacingIsHonoured(t *testing.T) {
	e := newEngine(t)
	for _, s := range deck.Spacings {
		in := freeInput()
		in.ForcedJoistSpacingIn = f(float64(s))
		in.WidthFt, in.LengthFt = f(10), f(14)
		res, err := e.Generate(in, Reference{})
		require.NoError(t, err)
		assert.Equal(t, s, res.Joists.SpacingIn)
	}
}

func TestRequiredPricesMatchDefaultBook(t *testing.T) {
	assert.NoError(t, CheckPrices(pricebook.Default()))
	assert.Error(t, CheckPrices(pricebook.NewBuilder().Build()))
}
