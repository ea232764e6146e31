package batch

import (
	"errors"
	"fmt"
	"sync"

	"Deckwright/internal/calc/deck"
	"Deckwright/internal/calc/engine"
	"Deckwright/internal/calcerr"
)

// MaxItems bounds one batch request.
const MaxItems = 200

const workers = 4

// Generator is the part of the engine a batch needs.
type Generator interface {
	Generate(in deck.Input, ref engine.Reference) (deck.Result, error)
}

type Input struct {
	Items []deck.Input `json:"items"`
}

type ItemError struct {
	Code    calcerr.Code         `json:"code"`
	Message string               `json:"message"`
	Fields  []calcerr.FieldError `json:"fields,omitempty"`
}

type ItemResult struct {
	Index  int          `json:"index"`
	Result *deck.Result `json:"result,omitempty"`
	Error  *ItemError   `json:"error,omitempty"`
}

type Result struct {
	Count     int          `json:"count"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []ItemResult `json:"results"`
}

// Run generates every item. A failing item is reported in place and never
// stops the rest of the batch.
func Run(g Generator, in Input, ref engine.Reference) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, fmt.Errorf("no items")
	}
	if len(in.Items) > MaxItems {
		return Result{}, fmt.Errorf("batch of %d items exceeds limit of %d", len(in.Items), MaxItems)
	}

	results := make([]ItemResult, len(in.Items))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = generate(g, i, in.Items[i], ref)
			}
		}()
	}
	for i := range in.Items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := Result{Count: len(results), Results: results}
	for _, r := range results {
		if r.Error != nil {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}
	return out, nil
}

func generate(g Generator, i int, in deck.Input, ref engine.Reference) ItemResult {
	res, err := g.Generate(in, ref)
	if err != nil {
		return ItemResult{Index: i, Error: toItemError(err)}
	}
	return ItemResult{Index: i, Result: &res}
}

func toItemError(err error) *ItemError {
	var ce *calcerr.Error
	if errors.As(err, &ce) {
		return &ItemError{Code: ce.Code, Message: ce.Message, Fields: ce.Fields}
	}
	return &ItemError{Code: "INTERNAL", Message: err.Error()}
}
