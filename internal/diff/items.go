package diff

import (
	"fmt"
	"strings"
)

// OrderChangedLabel labels the node emitted when an order-sensitive
// collection keeps its members but changes their positions.
const OrderChangedLabel = "Order Changed"

// Item is anything that can be reconciled by name within its container.
type Item interface {
	ItemName() string
}

// Ordered items carry their declared position. Items that do not implement
// it are ordered by their position in the sequence being compared.
type Ordered interface {
	ItemOrdinal() int
}

// Comparer diffs two matched items and returns nil when they are equivalent.
type Comparer[T Item] func(oldItem, newItem T) *Node

// CompareValue returns nil when oldValue == newValue. Otherwise it returns a
// Changed node labeled label holding a Removed leaf with the old value and an
// Added leaf with the new value.
func CompareValue[V comparable](label string, oldValue, newValue V) *Node {
	if oldValue == newValue {
		return nil
	}
	return &Node{
		Label: label,
		Kind:  Changed,
		Children: []*Node{
			Leaf(Removed, fmt.Sprint(oldValue)),
			Leaf(Added, fmt.Sprint(newValue)),
		},
	}
}

// CompareItems reconciles two named sequences.
//
// Items are matched by name. When a name occurs more than once, the n-th old
// occurrence is matched with the n-th new occurrence. Matched pairs are passed
// to compare; unmatched new items become Added leaves in new-sequence order and
// unmatched old items become Removed leaves, in old-sequence order, ahead of
// everything else. With orderSensitive set, the first matched pair whose
// position differs adds a single Order Changed node listing both sequences.
//
// The result is an Outline node labeled label, or nil when nothing differs.
func CompareItems[T Item](label string, oldItems, newItems []T, compare Comparer[T], orderSensitive bool) *Node {
	pending := newMatchIndex(oldItems)

	var changes []*Node
	orderChanged := false
	for newPos, newItem := range newItems {
		oldPos, ok := pending.take(newItem.ItemName())
		if !ok {
			changes = append(changes, Leaf(Added, newItem.ItemName()))
			continue
		}

		oldItem := oldItems[oldPos]
		if orderSensitive && !orderChanged && ordinal(oldItem, oldPos) != ordinal(newItem, newPos) {
			orderChanged = true
			changes = append(changes, &Node{
				Label: OrderChangedLabel,
				Kind:  Outline,
				Children: []*Node{
					Leaf(Removed, joinNames(oldItems)),
					Leaf(Added, joinNames(newItems)),
				},
			})
		}

		if compare != nil {
			if result := compare(oldItem, newItem); result != nil {
				changes = append(changes, result)
			}
		}
	}

	removed := pending.remaining()
	results := make([]*Node, 0, len(removed)+len(changes))
	for _, oldPos := range removed {
		results = append(results, Leaf(Removed, oldItems[oldPos].ItemName()))
	}
	results = append(results, changes...)

	return PrepareResult(label, Outline, results...)
}

func ordinal[T Item](item T, position int) int {
	if o, ok := any(item).(Ordered); ok {
		return o.ItemOrdinal()
	}
	return position
}

func joinNames[T Item](items []T) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.ItemName()
	}
	return strings.Join(names, ", ")
}

// matchIndex maps names to the old positions not yet matched, in order.
type matchIndex struct {
	positions map[string][]int
	matched   []bool
}

func newMatchIndex[T Item](items []T) *matchIndex {
	idx := &matchIndex{
		positions: make(map[string][]int, len(items)),
		matched:   make([]bool, len(items)),
	}
	for i, item := range items {
		name := item.ItemName()
		idx.positions[name] = append(idx.positions[name], i)
	}
	return idx
}

// take claims the earliest unmatched old position for name.
func (m *matchIndex) take(name string) (int, bool) {
	queue := m.positions[name]
	if len(queue) == 0 {
		return 0, false
	}
	pos := queue[0]
	if len(queue) == 1 {
		delete(m.positions, name)
	} else {
		m.positions[name] = queue[1:]
	}
	m.matched[pos] = true
	return pos, true
}

// remaining returns the unmatched old positions in ascending order.
func (m *matchIndex) remaining() []int {
	var out []int
	for pos, ok := range m.matched {
		if !ok {
			out = append(out, pos)
		}
	}
	return out
}
