package pipeline

import (
	"io"
	"sync"

	deadlock "github.com/sasha-s/go-deadlock"
	"github.com/segmentio/ksuid"

	"tacopt/internal/ir"
	"tacopt/internal/terr"
)

// FunctionResult is one function's outcome: the diagnostics the
// pipeline raised for it and the run ID correlating it with the rest
// of that invocation's log lines. The transformed body is returned
// separately, in RunProgram's *ir.Program.
type FunctionResult struct {
	RunID       string
	Diagnostics []*terr.Diagnostic
}

// RunProgram applies cfg's pipeline to every function in p concurrently
// — functions are independent units of work, so there is no
// cross-function state to serialize on besides the diagnostics sink.
// out receives each function's per-pass log lines; nil silences them.
// The deadlock.Mutex guarding that sink is a drop-in replacement for
// sync.Mutex that reports the cycle if the shared sink is ever locked
// out of order.
func RunProgram(p *ir.Program, cfg *Config, out io.Writer) (*ir.Program, map[string]FunctionResult) {
	var mu deadlock.Mutex
	built := Build(cfg, &syncWriter{w: out, mu: &mu})

	results := make(map[string]FunctionResult, len(p.Functions))

	transformed := make([]*ir.Function, len(p.Functions))
	var wg sync.WaitGroup
	for i, fn := range p.Functions {
		wg.Add(1)
		go func(i int, fn *ir.Function) {
			defer wg.Done()
			runID := ksuid.New().String()
			next, diags := built.Run(fn)

			mu.Lock()
			results[fn.Name] = FunctionResult{RunID: runID, Diagnostics: diags}
			mu.Unlock()

			transformed[i] = next
		}(i, fn)
	}
	wg.Wait()

	return &ir.Program{Functions: transformed}, results
}

// syncWriter serializes writes from the concurrent per-function
// pipeline runs so their log lines don't interleave mid-line.
type syncWriter struct {
	w  io.Writer
	mu *deadlock.Mutex
}

func (s *syncWriter) Write(b []byte) (int, error) {
	if s.w == nil {
		return len(b), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(b)
}
