package validate

import (
	"fmt"
	"math"

	"Deckwright/internal/calc/deck"
	"Deckwright/internal/calcerr"
)

// Surface footings at or above this height cannot carry a ledger deck.
const SurfaceLedgerMaxHeightFt = 2.5

// Validate checks a raw request and returns either a typed request or every
// violation found. A non-empty failure list means the request is unusable.
func Validate(in deck.Input) (deck.Request, []calcerr.FieldError) {
	var errs []calcerr.FieldError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, calcerr.FieldError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	var req deck.Request

	dims := []struct {
		name     string
		val      *float64
		dst      *float64
		positive bool
	}{
		{"width_ft", in.WidthFt, &req.WidthFt, true},
		{"length_ft", in.LengthFt, &req.LengthFt, true},
		{"height_ft", in.HeightFt, &req.HeightFt, false},
	}
	for _, d := range dims {
		switch {
		case d.val == nil:
			add(d.name, calcerr.FieldMissing, "is required")
		case math.IsNaN(*d.val) || math.IsInf(*d.val, 0):
			add(d.name, calcerr.FieldOutOfRange, "must be a finite number")
		case d.positive && *d.val <= 0:
			add(d.name, calcerr.FieldOutOfRange, "must be greater than 0, got %g", *d.val)
		case !d.positive && *d.val < 0:
			add(d.name, calcerr.FieldOutOfRange, "must be at least 0, got %g", *d.val)
		default:
			*d.dst = *d.val
		}
	}

	req.Attachment = deck.Attachment(in.Attachment)
	switch {
	case in.Attachment == "":
		add("attachment", calcerr.FieldMissing, "is required")
	case !req.Attachment.Valid():
		add("attachment", calcerr.FieldInvalidEnum, "must be one of %v, got %q", deck.Attachments, in.Attachment)
	}

	req.FootingType = deck.Footing(in.FootingType)
	switch {
	case in.FootingType == "":
		add("footing_type", calcerr.FieldMissing, "is required")
	case !req.FootingType.Valid():
		add("footing_type", calcerr.FieldInvalidEnum, "must be one of %v, got %q", deck.Footings, in.FootingType)
	}

	req.SpeciesGrade = deck.Species(in.SpeciesGrade)
	switch {
	case in.SpeciesGrade == "":
		add("species_grade", calcerr.FieldMissing, "is required")
	case !req.SpeciesGrade.Valid():
		add("species_grade", calcerr.FieldInvalidEnum, "must be one of %v, got %q", deck.AllSpecies, in.SpeciesGrade)
	}

	req.DeckingType = deck.Decking(in.DeckingType)
	switch {
	case in.DeckingType == "":
		add("decking_type", calcerr.FieldMissing, "is required")
	case !req.DeckingType.Valid():
		add("decking_type", calcerr.FieldInvalidEnum, "must be one of %v, got %q", deck.Deckings, in.DeckingType)
	}

	req.OptimizationGoal = deck.GoalCost
	if in.OptimizationGoal != "" {
		req.OptimizationGoal = deck.Goal(in.OptimizationGoal)
		if !req.OptimizationGoal.Valid() {
			add("optimization_goal", calcerr.FieldInvalidEnum, "must be one of %v, got %q", deck.Goals, in.OptimizationGoal)
		}
	}

	if in.ForcedJoistSpacingIn != nil {
		v := *in.ForcedJoistSpacingIn
		if v != math.Trunc(v) || !deck.ValidSpacing(int(v)) {
			add("forced_joist_spacing_in", calcerr.FieldInvalidEnum, "must be one of %v, got %g", deck.Spacings, v)
		} else {
			req.ForcedJoistSpacingIn = int(v)
		}
	}

	if in.BeamStyleOuter != "" {
		req.BeamStyleOuter = deck.BeamStyle(in.BeamStyleOuter)
		if req.BeamStyleOuter != deck.StyleDrop && req.BeamStyleOuter != deck.StyleInline {
			add("beam_style_outer", calcerr.FieldInvalidEnum, "must be drop or inline, got %q", in.BeamStyleOuter)
		}
	}

	if in.BeamStyleInner != "" {
		req.BeamStyleInner = deck.BeamStyle(in.BeamStyleInner)
		switch req.BeamStyleInner {
		case deck.StyleDrop, deck.StyleInline:
			if req.Attachment == deck.AttachLedger {
				add("beam_style_inner", calcerr.FieldIllegalCombination, "ledger attachment uses the ledger as the inner support, got %q", in.BeamStyleInner)
			}
		case deck.StyleLedger:
			if req.Attachment == deck.AttachFree {
				add("beam_style_inner", calcerr.FieldIllegalCombination, "a free-standing deck has no ledger")
			}
		default:
			add("beam_style_inner", calcerr.FieldInvalidEnum, "must be drop, inline or ledger, got %q", in.BeamStyleInner)
		}
	}

	if req.FootingType == deck.FootingSurface && req.Attachment == deck.AttachLedger &&
		in.HeightFt != nil && *in.HeightFt >= SurfaceLedgerMaxHeightFt {
		add("attachment", calcerr.FieldIllegalCombination,
			"surface footings at %.1f ft or higher cannot support a ledger-attached deck (height %g ft)",
			SurfaceLedgerMaxHeightFt, *in.HeightFt)
	}

	if len(errs) > 0 {
		return deck.Request{}, errs
	}
	return req, nil
}
