package cart

import (
	"sync"

	"github.com/google/uuid"

	"github.com/servease/servease-backend/internal/pricing"
)

// LineItem is one entry in a cart. AvailableStock is the bound supplied by
// the catalog at the line's most recent mutation; the cart consults it but
// never owns it.
type LineItem struct {
	ItemID         uuid.UUID
	Quantity       int
	AvailableStock int
	Context        pricing.UnitContext
}

// ChangeHook receives a value copy of the cart after every mutation. The
// store performs no I/O itself; hosts wire the hook to durable storage.
type ChangeHook func(snapshot []LineItem)

// Store is an insertion-ordered collection of line items keyed by item id.
// Merge-then-clamp is a read-modify-write sequence, so every mutation holds
// the mutex end to end.
type Store struct {
	mu       sync.Mutex
	order    []uuid.UUID
	lines    map[uuid.UUID]*LineItem
	onChange ChangeHook
}

// NewStore builds an empty cart. The hook may be nil.
func NewStore(onChange ChangeHook) *Store {
	return &Store{
		lines:    make(map[uuid.UUID]*LineItem),
		onChange: onChange,
	}
}

// Add inserts a new line or merges into an existing one by summing
// quantities, then clamps against the supplied stock. It returns the
// resulting quantity and whether clamping occurred, so callers can warn the
// user. Adding with no stock removes the line entirely.
func (s *Store) Add(itemID uuid.UUID, quantity, stock int, ctx pricing.UnitContext) (int, bool) {
	if quantity < 1 {
		quantity = 1
	}
	if stock < 0 {
		stock = 0
	}
	if ctx == nil {
		ctx = pricing.ProductContext{}
	}

	s.mu.Lock()
	line, ok := s.lines[itemID]
	if ok {
		line.Quantity += quantity
		line.AvailableStock = stock
	} else {
		line = &LineItem{ItemID: itemID, Quantity: quantity, AvailableStock: stock, Context: ctx}
		s.lines[itemID] = line
		s.order = append(s.order, itemID)
	}

	clamped := false
	if line.Quantity > stock {
		line.Quantity = stock
		clamped = true
	}
	if line.Quantity < 1 {
		s.removeLocked(itemID)
		s.notifyLocked()
		s.mu.Unlock()
		return 0, true
	}

	result := line.Quantity
	s.notifyLocked()
	s.mu.Unlock()
	return result, clamped
}

// SetQuantity updates a line in place, clamping to [1, stock]. A quantity of
// zero or less removes the line. Unknown item ids are a no-op.
func (s *Store) SetQuantity(itemID uuid.UUID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[itemID]
	if !ok {
		return
	}
	s.setQuantityLocked(line, quantity)
}

// SetQuantityWithStock updates a line against a freshly supplied stock
// bound, replacing whatever bound the line carried. Restored carts seed
// availableStock from the persisted quantity, so a quantity increase must
// come through here with the catalog's current stock.
func (s *Store) SetQuantityWithStock(itemID uuid.UUID, quantity, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[itemID]
	if !ok {
		return
	}
	if stock < 0 {
		stock = 0
	}
	line.AvailableStock = stock
	s.setQuantityLocked(line, quantity)
}

func (s *Store) setQuantityLocked(line *LineItem, quantity int) {
	if quantity > line.AvailableStock {
		quantity = line.AvailableStock
	}
	if quantity < 1 {
		s.removeLocked(line.ItemID)
		s.notifyLocked()
		return
	}
	line.Quantity = quantity
	s.notifyLocked()
}

// Remove deletes a line. Removing an absent item is a no-op, which keeps
// double-fired UI events harmless.
func (s *Store) Remove(itemID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lines[itemID]; !ok {
		return
	}
	s.removeLocked(itemID)
	s.notifyLocked()
}

// Clear empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) == 0 {
		return
	}
	s.order = nil
	s.lines = make(map[uuid.UUID]*LineItem)
	s.notifyLocked()
}

// Get returns a value copy of one line.
func (s *Store) Get(itemID uuid.UUID) (LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[itemID]
	if !ok {
		return LineItem{}, false
	}
	return *line, true
}

// Len reports the number of lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Snapshot returns the lines in insertion order as value copies. Mutating
// the returned slice does not touch the store.
func (s *Store) Snapshot() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Restore replaces the cart contents from a persisted snapshot, preserving
// order. Restored lines start with availableStock equal to the restored
// quantity; the next mutation refreshes it from the catalog. Restore does
// not fire the change hook, since the state came from persistence.
func (s *Store) Restore(lines []PersistedLine) error {
	decoded := make([]*LineItem, 0, len(lines))
	for _, persisted := range lines {
		ctx, err := pricing.DecodeContext(persisted.Context)
		if err != nil {
			return err
		}
		quantity := persisted.Quantity
		if quantity < 1 {
			continue
		}
		decoded = append(decoded, &LineItem{
			ItemID:         persisted.ItemID,
			Quantity:       quantity,
			AvailableStock: quantity,
			Context:        ctx,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.lines = make(map[uuid.UUID]*LineItem, len(decoded))
	for _, line := range decoded {
		if _, ok := s.lines[line.ItemID]; ok {
			continue
		}
		s.lines[line.ItemID] = line
		s.order = append(s.order, line.ItemID)
	}
	return nil
}

func (s *Store) removeLocked(itemID uuid.UUID) {
	delete(s.lines, itemID)
	for i, id := range s.order {
		if id == itemID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) snapshotLocked() []LineItem {
	out := make([]LineItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.lines[id])
	}
	return out
}

func (s *Store) notifyLocked() {
	if s.onChange == nil {
		return
	}
	s.onChange(s.snapshotLocked())
}
