// Package mock produces example attribute values for the usage snippet.
package mock

import (
	"fmt"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
)

// Provider renders random literals for primitive prop types. Values are JSX
// attribute payloads: quoted strings, braced numbers and booleans.
type Provider struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// New returns a Provider. A zero seed picks a random one; any other seed
// makes the output reproducible.
func New(seed uint64) *Provider {
	return &Provider{faker: gofakeit.New(seed)}
}

// MockValue returns a literal for "string", "number" or "boolean" and false
// for every other type name.
func (p *Provider) MockValue(typeName string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch typeName {
	case "string":
		return "'" + p.faker.LoremIpsumWord() + "'", true
	case "number":
		return fmt.Sprintf("{%d}", p.faker.Number(0, 100)), true
	case "boolean":
		return fmt.Sprintf("{%t}", p.faker.Bool()), true
	default:
		return "", false
	}
}
