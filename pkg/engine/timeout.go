package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/chazu/barrelgeo/pkg/detector"
)

// EvalTimeout is the default limit for one evaluation.
const EvalTimeout = 5 * time.Second

type evalResult struct {
	file   *detector.File
	errors []EvalError
	err    error
}

// generation counts Evaluate calls. A result is only delivered if no newer
// call started while it was being computed.
type generation struct {
	mu  sync.Mutex
	cur uint64
}

func (g *generation) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cur++
	return g.cur
}

func (g *generation) current() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cur
}

// await returns the result of evaluation gen, or an error once limit has
// passed. A timed-out evaluation keeps running; whatever it sends later
// lands in the buffered channel and is dropped.
func (g *generation) await(ch <-chan evalResult, gen uint64, limit time.Duration) (*detector.File, []EvalError, error) {
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		if cur := g.current(); cur != gen {
			return nil, nil, fmt.Errorf("evaluation %d superseded by %d", gen, cur)
		}
		return res.file, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", limit)
	}
}
