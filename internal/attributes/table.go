package attributes

import (
	"errors"
	"maps"
	"strconv"
	"strings"
)

var (
	// ErrLocked indicates an attempt to change an attribute locked through the API.
	ErrLocked = errors.New("attributes: attribute is locked")
	// ErrFrozen indicates a mutation after the table was frozen for rendering.
	ErrFrozen = errors.New("attributes: table is frozen")
	// ErrInvalidName indicates an empty or malformed attribute name.
	ErrInvalidName = errors.New("attributes: invalid attribute name")
)

// ValueKind identifies the variant held by a Value.
type ValueKind uint8

const (
	KindString ValueKind = iota
	KindInteger
	KindFlag
)

// Value is an attribute value: a string, an integer or a boolean flag (set
// with no text).
type Value struct {
	kind ValueKind
	str  string
	num  int
}

// String builds a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int builds an integer value.
func Int(n int) Value { return Value{kind: KindInteger, num: n} }

// Flag builds a flag value (an attribute that is set but carries no text).
func Flag() Value { return Value{kind: KindFlag} }

// Kind reports the value variant.
func (v Value) Kind() ValueKind { return v.kind }

// Int returns the integer held by the value. String values that parse as
// integers are accepted.
func (v Value) Int() (int, bool) {
	switch v.kind {
	case KindInteger:
		return v.num, true
	case KindString:
		n, err := strconv.Atoi(strings.TrimSpace(v.str))
		return n, err == nil
	default:
		return 0, false
	}
}

// String renders the value as it appears when referenced.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.Itoa(v.num)
	case KindFlag:
		return ""
	default:
		return v.str
	}
}

// Entry records a single attribute assignment or removal so it can be
// replayed in document order.
type Entry struct {
	Name  string
	Value Value
	Unset bool
	Line  int
}

// Table is the ordered, document-scoped attribute store.
type Table struct {
	keys   []string
	values map[string]Value
	locked map[string]struct{}
	frozen bool

	lockedCounters map[string]Value
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		values: make(map[string]Value),
		locked: make(map[string]struct{}),
	}
}

// Normalize lower-cases and trims an attribute name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Set assigns a value. Locked attributes and frozen tables reject the change.
func (t *Table) Set(name string, value Value) error {
	key := Normalize(name)
	if key == "" {
		return ErrInvalidName
	}
	if t.frozen {
		return ErrFrozen
	}
	if _, ok := t.locked[key]; ok {
		return ErrLocked
	}
	t.store(key, value)
	return nil
}

// SetString is shorthand for Set(name, String(value)).
func (t *Table) SetString(name, value string) error {
	return t.Set(name, String(value))
}

// Unset removes an attribute.
func (t *Table) Unset(name string) error {
	key := Normalize(name)
	if key == "" {
		return ErrInvalidName
	}
	if t.frozen {
		return ErrFrozen
	}
	if _, ok := t.locked[key]; ok {
		return ErrLocked
	}
	t.remove(key)
	return nil
}

// Apply replays an entry.
func (t *Table) Apply(e Entry) error {
	if e.Unset {
		return t.Unset(e.Name)
	}
	return t.Set(e.Name, e.Value)
}

// Lock assigns an attribute and prevents in-document entries from changing it.
func (t *Table) Lock(name string, value Value) {
	key := Normalize(name)
	if key == "" {
		return
	}
	t.store(key, value)
	t.locked[key] = struct{}{}
}

// LockUnset removes an attribute and keeps in-document entries from setting it.
func (t *Table) LockUnset(name string) {
	key := Normalize(name)
	if key == "" {
		return
	}
	t.remove(key)
	t.locked[key] = struct{}{}
}

// IsLocked reports whether the attribute was locked through the API.
func (t *Table) IsLocked(name string) bool {
	_, ok := t.locked[Normalize(name)]
	return ok
}

// Get returns the value of an attribute.
func (t *Table) Get(name string) (Value, bool) {
	v, ok := t.values[Normalize(name)]
	return v, ok
}

// GetString returns the string form of an attribute.
func (t *Table) GetString(name string) (string, bool) {
	v, ok := t.Get(name)
	if !ok {
		return "", false
	}
	return v.String(), true
}

// Value returns the string form of an attribute or fallback when unset.
func (t *Table) Value(name, fallback string) string {
	if v, ok := t.GetString(name); ok {
		return v
	}
	return fallback
}

// IsSet reports whether the attribute is defined.
func (t *Table) IsSet(name string) bool {
	_, ok := t.values[Normalize(name)]
	return ok
}

// Names returns attribute names in assignment order.
func (t *Table) Names() []string {
	return append([]string(nil), t.keys...)
}

// Len returns the number of defined attributes.
func (t *Table) Len() int { return len(t.keys) }

// Snapshot returns the string form of every attribute.
func (t *Table) Snapshot() map[string]string {
	out := make(map[string]string, len(t.keys))
	for _, key := range t.keys {
		out[key] = t.values[key].String()
	}
	return out
}

// Clone copies the table, including locks. The copy is never frozen.
func (t *Table) Clone() *Table {
	clone := NewTable()
	clone.keys = append(clone.keys, t.keys...)
	for k, v := range t.values {
		clone.values[k] = v
	}
	for k := range t.locked {
		clone.locked[k] = struct{}{}
	}
	clone.lockedCounters = maps.Clone(t.lockedCounters)
	return clone
}

// Restore replaces the contents of t with those of other, keeping t's identity.
func (t *Table) Restore(other *Table) {
	if other == nil || t.frozen {
		return
	}
	t.keys = append(t.keys[:0], other.keys...)
	t.values = make(map[string]Value, len(other.values))
	for k, v := range other.values {
		t.values[k] = v
	}
	t.locked = make(map[string]struct{}, len(other.locked))
	for k := range other.locked {
		t.locked[k] = struct{}{}
	}
	t.lockedCounters = maps.Clone(other.lockedCounters)
}

// Freeze makes the table read-only.
func (t *Table) Freeze() { t.frozen = true }

// Frozen reports whether the table is read-only.
func (t *Table) Frozen() bool { return t.frozen }

func (t *Table) store(key string, value Value) {
	if _, exists := t.values[key]; !exists {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

func (t *Table) remove(key string) {
	if _, exists := t.values[key]; !exists {
		return
	}
	delete(t.values, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}
