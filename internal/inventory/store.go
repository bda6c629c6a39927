package inventory

import "github.com/meshwise/meshcost/internal/model"

// Store is the working set of imported rows. It assigns sequential IDs
// on insertion so callers can address and remove individual rows; IDs
// are local to one Store and never reused within it.
type Store struct {
	nextID     int
	namespaces []model.NamespaceRow
	nodes      []model.NodeRow
}

// NewStore creates an empty row store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// FromInventory creates a store pre-populated from a snapshot,
// reassigning IDs.
func FromInventory(inv model.Inventory) *Store {
	s := NewStore()
	s.AddNamespaceRows(inv.Namespaces)
	s.AddNodeRows(inv.Nodes)
	return s
}

// AddNamespaceRows appends rows, assigning each a fresh ID. Duplicate
// imports append, they do not merge.
func (s *Store) AddNamespaceRows(rows []model.NamespaceRow) {
	for _, r := range rows {
		r.ID = s.nextID
		s.nextID++
		s.namespaces = append(s.namespaces, r)
	}
}

// AddNodeRows appends rows, assigning each a fresh ID.
func (s *Store) AddNodeRows(rows []model.NodeRow) {
	for _, r := range rows {
		r.ID = s.nextID
		s.nextID++
		s.nodes = append(s.nodes, r)
	}
}

// RemoveNamespaceRow deletes the row with the given ID, preserving the
// order of the rest. Returns false when no such row exists.
func (s *Store) RemoveNamespaceRow(id int) bool {
	for i := range s.namespaces {
		if s.namespaces[i].ID == id {
			s.namespaces = append(s.namespaces[:i], s.namespaces[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveNodeRow deletes the node row with the given ID.
func (s *Store) RemoveNodeRow(id int) bool {
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return true
		}
	}
	return false
}

// NamespaceRows returns the namespace rows in insertion order.
func (s *Store) NamespaceRows() []model.NamespaceRow {
	out := make([]model.NamespaceRow, len(s.namespaces))
	copy(out, s.namespaces)
	return out
}

// NodeRows returns the node rows in insertion order.
func (s *Store) NodeRows() []model.NodeRow {
	out := make([]model.NodeRow, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Snapshot exports the store contents as a serializable inventory.
func (s *Store) Snapshot() model.Inventory {
	return model.Inventory{
		Namespaces: s.NamespaceRows(),
		Nodes:      s.NodeRows(),
	}
}
