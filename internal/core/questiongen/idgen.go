package questiongen

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator supplies question ids. Production code uses UUIDs; tests inject
// a deterministic sequence so exact ids can be asserted.
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

type SequenceGenerator struct {
	prefix string

	mu   sync.Mutex
	next int
}

func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "q"
	}
	return &SequenceGenerator{prefix: prefix}
}

func (g *SequenceGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next)
}
