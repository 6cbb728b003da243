package database

import (
	"testing"
	"time"
)

func TestAnd_NumbersPlaceholdersInOrder(t *testing.T) {
	var args Args
	got := And{
		Eq{Column: "e.user_id", Value: "u1"},
		Eq{Column: "e.status", Value: "pending"},
		ContainsFold{Column: "e.description", Substr: "taxi"},
	}.SQL(&args)

	want := "e.user_id = $1 AND e.status = $2 AND e.description ILIKE $3"
	if got != want {
		t.Fatalf("sql=%q want %q", got, want)
	}
	vals := args.Values()
	if len(vals) != 3 || vals[0] != "u1" || vals[1] != "pending" || vals[2] != "%taxi%" {
		t.Fatalf("args=%v", vals)
	}
}

func TestWhere_EmptyRendersNothing(t *testing.T) {
	var args Args
	if got := Where(nil, &args); got != "" {
		t.Fatalf("where=%q want empty", got)
	}
	if len(args.Values()) != 0 {
		t.Fatalf("args=%v want none", args.Values())
	}
}

func TestContainsFold_EscapesWildcards(t *testing.T) {
	var args Args
	ContainsFold{Column: "d", Substr: `50%_off\`}.SQL(&args)
	if got := args.Values()[0]; got != `%50\%\_off\\%` {
		t.Fatalf("pattern=%q", got)
	}
}

// TestDateWindow verifies the list filter's asymmetric range: inclusive
// between both bounds, strict for a single bound.
func TestDateWindow(t *testing.T) {
	d1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		from, to *time.Time
		want     string
	}{
		{"both", &d1, &d2, "e.date BETWEEN $1 AND $2"},
		{"from only", &d1, nil, "e.date > $1"},
		{"to only", nil, &d2, "e.date < $1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var args Args
			p := DateWindow("e.date", c.from, c.to)
			if p == nil {
				t.Fatal("expected predicate")
			}
			if got := p.SQL(&args); got != c.want {
				t.Fatalf("sql=%q want %q", got, c.want)
			}
		})
	}

	if p := DateWindow("e.date", nil, nil); p != nil {
		t.Fatalf("no bounds should give nil predicate, got %T", p)
	}
}

func TestStrictBounds_NeverBetween(t *testing.T) {
	d1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	var args Args
	got := And(StrictBounds("e.date", &d1, &d2)).SQL(&args)
	if got != "e.date > $1 AND e.date < $2" {
		t.Fatalf("sql=%q", got)
	}
	if len(StrictBounds("e.date", nil, nil)) != 0 {
		t.Fatal("no bounds should give no predicates")
	}
}
