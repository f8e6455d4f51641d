package engine

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

const twoBarrels = `
(detector :name "MuMegasTwin")
(medium "ArIso" :density 0.0019)
(layer "thick"
  :gas "ArIso"
  (slab :role :readout-pcb :material "MuMegasG10" :thickness 0.32)
  (slab :role :conversion-region :material "ArIso" :thickness 5)
  (slab :role :exit-window :material "MuMegasKapton" :thickness 0.05))
(barrel :radius 500 :length 600 :sectors 12 :sections 1)
(barrel :layer "thick" :radius 700 :length 900 :sectors 16 :sections 3)
`

// slowSource describes enough barrels that evaluation outlasts a
// millisecond timeout by a wide margin.
const slowSource = `
(for [(def i 0) (< i 200000) (def i (+ i 1))]
  (barrel :radius (+ 500 i) :length 600 :sectors 12 :sections 1))
`

func TestEvaluateBlankSource(t *testing.T) {
	for _, src := range []string{"", "   \n\t  \n  "} {
		f, evalErrs, err := NewEngine().Evaluate(src)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("Evaluate(%q): err=%v evalErrs=%v", src, err, evalErrs)
		}
		if f == nil || len(f.Barrels) != 0 || len(f.Layers) != 0 {
			t.Errorf("Evaluate(%q) = %+v, want an empty description", src, f)
		}
	}
}

func TestEvaluateSameDescriptionTwice(t *testing.T) {
	eng := NewEngine()
	first := evalOK(t, twoBarrels)

	for i := 0; i < 3; i++ {
		f, evalErrs, err := eng.Evaluate(twoBarrels)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("run %d: err=%v evalErrs=%v", i, err, evalErrs)
		}
		if !reflect.DeepEqual(first, f) {
			t.Fatalf("run %d differs:\n got %+v\nwant %+v", i, f, first)
		}
	}
	if first.Name != "MuMegasTwin" || len(first.Barrels) != 2 || len(first.Layers["thick"].Slabs) != 3 {
		t.Errorf("unexpected description %+v", first)
	}
}

func TestEvaluateFreshSandboxPerCall(t *testing.T) {
	eng := NewEngine()
	if _, evalErrs, err := eng.Evaluate(`(layer "shared")`); err != nil || len(evalErrs) > 0 {
		t.Fatalf("first: err=%v evalErrs=%v", err, evalErrs)
	}
	// A second definition would fail within one sandbox.
	f, evalErrs, err := eng.Evaluate(`(layer "shared")`)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("second: err=%v evalErrs=%v", err, evalErrs)
	}
	if len(f.Layers) != 1 {
		t.Errorf("expected exactly one layer, got %d", len(f.Layers))
	}
}

func TestEvaluateUnbalancedLayer(t *testing.T) {
	src := `(medium "ArIso" :density 0.0019)
(layer "thin"
  :gas "ArIso"
  (slab :role :conversion-region :material "ArIso" :thickness 3)
(barrel :layer "thin" :radius 300 :length 400 :sectors 8 :sections 1)
`
	f, evalErrs, err := NewEngine().Evaluate(src)
	if err != nil {
		t.Fatalf("expected an eval error, got fatal: %v", err)
	}
	if f != nil {
		t.Fatal("expected nil file on parse error")
	}
	if len(evalErrs) == 0 || evalErrs[0].Message == "" {
		t.Fatalf("expected a described parse error, got %v", evalErrs)
	}
	if l := evalErrs[0].Line; l < 0 || l > strings.Count(src, "\n")+1 {
		t.Errorf("line %d lies outside the source", l)
	}
}

func TestEvaluateErrorInsideLayerForm(t *testing.T) {
	evalFails(t, `
(layer "thin"
  :gas "arco27030mmg"
  (slab :material "copper" :thickness 0.01)
  (slab :role :conversion-region :material "arco27030mmg" :thickness 3))
`, "requires :role")

	evalFails(t, `
(layer "thin")
(barrel :layer "thin" :radius 500 :length 600 :sectors missing-count :sections 1)
`, "")
}

func TestEvaluateTimesOutOnLongDescription(t *testing.T) {
	eng := &Engine{Timeout: time.Millisecond}

	start := time.Now()
	f, evalErrs, err := eng.Evaluate(slowSource)
	if err == nil {
		t.Fatalf("expected a timeout, got %d barrels and %v", len(f.Barrels), evalErrs)
	}
	if !strings.Contains(err.Error(), "timed out after 1ms") {
		t.Errorf("err = %v, want a timeout", err)
	}
	if f != nil || evalErrs != nil {
		t.Error("a timed-out evaluation must not return a description")
	}
	if elapsed := time.Since(start); elapsed > EvalTimeout {
		t.Errorf("Evaluate returned after %s, limit was 1ms", elapsed)
	}

	// The engine stays usable after a timeout.
	eng.Timeout = 0
	f, evalErrs, err = eng.Evaluate(twoBarrels)
	if err != nil || len(evalErrs) > 0 || len(f.Barrels) != 2 {
		t.Fatalf("after timeout: f=%v err=%v evalErrs=%v", f, err, evalErrs)
	}
}

func TestGenerationDropsSupersededDescription(t *testing.T) {
	eng := NewEngine()
	f, evalErrs, err := eng.evaluate(twoBarrels)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("evaluate: err=%v evalErrs=%v", err, evalErrs)
	}

	stale := eng.gen.next()
	ch := make(chan evalResult, 1)
	ch <- evalResult{file: f}
	eng.gen.next()

	got, _, err := eng.gen.await(ch, stale, time.Second)
	if err == nil || !strings.Contains(err.Error(), "superseded") {
		t.Fatalf("err = %v, want superseded", err)
	}
	if got != nil {
		t.Error("a superseded description must be dropped")
	}

	current := eng.gen.current()
	ch <- evalResult{file: f}
	got, _, err = eng.gen.await(ch, current, time.Second)
	if err != nil || got != f {
		t.Errorf("current generation: got %p err=%v, want %p", got, err, f)
	}
}

func TestGenerationPassesEvalErrorsThrough(t *testing.T) {
	var g generation
	gen := g.next()
	ch := make(chan evalResult, 1)
	want := []EvalError{{Line: 3, Message: "layer \"thin\": expected slab"}}
	ch <- evalResult{errors: want}

	f, evalErrs, err := g.await(ch, gen, time.Second)
	if err != nil || f != nil || !reflect.DeepEqual(evalErrs, want) {
		t.Errorf("await = %v, %v, %v", f, evalErrs, err)
	}

	fatal := errors.New("panic during evaluation: boom")
	ch <- evalResult{err: fatal}
	if _, _, err := g.await(ch, gen, time.Second); err != fatal {
		t.Errorf("err = %v, want %v", err, fatal)
	}
}

func TestEvalErrorString(t *testing.T) {
	tests := []struct {
		e    EvalError
		want string
	}{
		{EvalError{Line: 4, Message: `layer "thin": expected slab`}, `line 4: layer "thin": expected slab`},
		{EvalError{Message: "barrel: expected integer"}, "barrel: expected integer"},
	}
	for _, tt := range tests {
		if got := tt.e.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "parse error in a layer form",
			msg:      "Error on line 4: unexpected end of input in (layer \"thin\"\n",
			wantLine: 4,
			wantMsg:  `(layer "thin"`,
		},
		{
			name:     "builtin message spans lines",
			msg:      "error on line 7: barrel: :sectors: expected integer\nin __main",
			wantLine: 7,
			wantMsg:  "expected integer",
		},
		{
			name:     "short form",
			msg:      "line 2: medium \"m\" defined twice",
			wantLine: 2,
			wantMsg:  "defined twice",
		},
		{
			name:    "no location",
			msg:     "slab requires :role",
			wantMsg: "slab requires :role",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errors.New(tt.msg))
			if len(errs) != 1 {
				t.Fatalf("expected one error, got %v", errs)
			}
			if errs[0].Line != tt.wantLine {
				t.Errorf("line = %d, want %d", errs[0].Line, tt.wantLine)
			}
			if !strings.Contains(errs[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", errs[0].Message, tt.wantMsg)
			}
		})
	}
}
