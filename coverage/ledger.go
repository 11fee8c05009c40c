package coverage

import (
	"sync"

	"github.com/openbindings/draft4cover/validator"
)

// Observation is the polarity seen at one pointer. Flags only ever turn on.
type Observation struct {
	Pass bool
	Fail bool
}

// Ledger accumulates engine events by pointer. It implements validator.Observer
// and is safe for concurrent use.
type Ledger struct {
	mu   sync.Mutex
	seen map[string]Observation
}

// NewLedger returns an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{seen: map[string]Observation{}}
}

// Observe records one engine event.
func (l *Ledger) Observe(_, ptr string, err *validator.KeywordError) {
	l.mu.Lock()
	defer l.mu.Unlock()
	o := l.seen[ptr]
	if err == nil {
		o.Pass = true
	} else {
		o.Fail = true
	}
	l.seen[ptr] = o
}

// Lookup returns what has been observed at ptr.
func (l *Ledger) Lookup(ptr string) Observation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seen[ptr]
}

// Len returns the number of distinct pointers observed.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}
