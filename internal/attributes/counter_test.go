package attributes

import "testing"

func TestCounter_StartsAtOneAndIncrements(t *testing.T) {
	table := NewTable()

	for want := 1; want <= 3; want++ {
		v, err := table.Counter("c", "")
		if err != nil {
			t.Fatalf("Counter() unexpected error: %v", err)
		}
		if n, ok := v.Int(); !ok || n != want {
			t.Fatalf("Counter() = %s, want %d", v, want)
		}
	}
	if got := table.Value("c", ""); got != "3" {
		t.Fatalf("attribute c = %q, want 3", got)
	}
}

func TestCounter_Seed(t *testing.T) {
	table := NewTable()

	v, _ := table.Counter("num", "10")
	if v.String() != "10" {
		t.Fatalf("numeric seed = %s", v)
	}
	v, _ = table.Counter("num", "99")
	if v.String() != "11" {
		t.Fatalf("seed ignored once set, got %s", v)
	}

	v, _ = table.Counter("letter", "A")
	if v.String() != "A" {
		t.Fatalf("letter seed = %s", v)
	}
	v, _ = table.Counter("letter", "")
	if v.String() != "B" {
		t.Fatalf("next letter = %s", v)
	}
}

func TestNextValue_LetterWrap(t *testing.T) {
	cases := map[string]string{
		"a":  "b",
		"y":  "z",
		"z":  "aa",
		"Z":  "AA",
		"az": "ba",
		"Az": "Ba",
		"zz": "aaa",
	}
	for in, want := range cases {
		if got := NextValue(String(in)).String(); got != want {
			t.Fatalf("NextValue(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCounter_LockedAttributeTracksSideValue(t *testing.T) {
	table := NewTable()
	table.Lock("c", String("7"))

	v, err := table.Counter("c", "")
	if err != nil {
		t.Fatalf("Counter() unexpected error: %v", err)
	}
	if v.String() != "1" {
		t.Fatalf("locked counter = %s, want 1", v)
	}
	if got := table.Value("c", ""); got != "7" {
		t.Fatalf("locked attribute changed to %q", got)
	}
}

func TestCounter_RestoreRewindsLockedCounters(t *testing.T) {
	table := NewTable()
	table.Lock("c", String("7"))
	snapshot := table.Clone()

	for range 3 {
		if _, err := table.Counter("c", ""); err != nil {
			t.Fatalf("Counter() unexpected error: %v", err)
		}
	}
	table.Restore(snapshot)

	v, err := table.Counter("c", "")
	if err != nil {
		t.Fatalf("Counter() unexpected error: %v", err)
	}
	if v.String() != "1" {
		t.Fatalf("counter after Restore() = %s, want 1", v)
	}
}
