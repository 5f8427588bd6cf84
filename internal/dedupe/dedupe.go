package dedupe

import (
	"context"
	"os"
	"sync"

	"github.com/peh-research/civicsift/internal/clients"
)

// SeenSet tracks record IDs across collector runs so streaming mode
// never publishes the same record twice.
type SeenSet interface {
	Seen(ctx context.Context, id string) bool
	Mark(ctx context.Context, id string) error
}

// MemorySet is the in-process fallback used when no Valkey address is
// configured. It only dedupes within a single run.
type MemorySet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewMemorySet() *MemorySet {
	return &MemorySet{ids: make(map[string]struct{})}
}

func (m *MemorySet) Seen(_ context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[id]
	return ok
}

func (m *MemorySet) Mark(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[id] = struct{}{}
	return nil
}

// ValkeySet keys a shared Valkey seen set by source.
type ValkeySet struct {
	vc     *clients.ValkeyClient
	source string
}

func NewValkeySet(vc *clients.ValkeyClient, source string) *ValkeySet {
	return &ValkeySet{vc: vc, source: source}
}

func (v *ValkeySet) Seen(ctx context.Context, id string) bool {
	return v.vc.IsSeen(ctx, v.source, id)
}

func (v *ValkeySet) Mark(ctx context.Context, id string) error {
	return v.vc.MarkSeen(ctx, v.source, id)
}

// ForSource returns a Valkey-backed set when VALKEY_INIT_ADDRESS is
// configured and an in-memory one otherwise.
func ForSource(source string) SeenSet {
	if os.Getenv("VALKEY_INIT_ADDRESS") != "" {
		return NewValkeySet(clients.InitValkey(), source)
	}
	return NewMemorySet()
}
