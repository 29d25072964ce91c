package attributes

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Counter advances the named counter and returns its new value. An unset
// counter starts at seed (an integer or a letter) or 1. Counters are stored as
// ordinary attributes so {name} observes the current value; locked attributes
// keep their value and the counter is tracked on the side.
func (t *Table) Counter(name, seed string) (Value, error) {
	key := Normalize(name)
	if key == "" {
		return Value{}, ErrInvalidName
	}
	if t.frozen {
		return Value{}, ErrFrozen
	}

	_, locked := t.locked[key]
	current, ok := t.values[key]
	if locked {
		current, ok = t.counters()[key]
	}

	var next Value
	switch {
	case ok && current.String() != "":
		next = NextValue(current)
	case strings.TrimSpace(seed) != "":
		seed = strings.TrimSpace(seed)
		if n, err := strconv.Atoi(seed); err == nil {
			next = Int(n)
		} else {
			next = String(seed)
		}
	default:
		next = Int(1)
	}

	if locked {
		t.counters()[key] = next
		return next, nil
	}
	t.store(key, next)
	return next, nil
}

func (t *Table) counters() map[string]Value {
	if t.lockedCounters == nil {
		t.lockedCounters = make(map[string]Value)
	}
	return t.lockedCounters
}

// NextValue returns the successor of a counter value. Integers increment;
// letter sequences advance like spreadsheet columns, so "z" becomes "aa" and
// "Az" becomes "Ba". Other strings advance their last character.
func NextValue(v Value) Value {
	if n, ok := v.Int(); ok {
		return Int(n + 1)
	}
	s := v.String()
	if isLetters(s) {
		return String(succLetters(s))
	}
	r, size := utf8.DecodeLastRuneInString(s)
	if r == utf8.RuneError {
		return Int(1)
	}
	return String(s[:len(s)-size] + string(r+1))
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

func succLetters(s string) string {
	b := []byte(s)
	for i := len(b) - 1; i >= 0; i-- {
		switch b[i] {
		case 'z':
			b[i] = 'a'
		case 'Z':
			b[i] = 'A'
		default:
			b[i]++
			return string(b)
		}
	}
	// every position wrapped; prepend the first letter of the matching case
	return string(b[0]) + string(b)
}
