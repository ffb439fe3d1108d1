package debounce

import (
	"testing"
	"time"

	"github.com/go-test/deep"

	"playcraft/internal/clock"
)

type settleRecorder struct {
	clock  *clock.Manual
	start  time.Time
	values []string
	at     []time.Duration
}

func (r *settleRecorder) record(v string) {
	r.values = append(r.values, v)
	r.at = append(r.at, r.clock.Now().Sub(r.start))
}

func newRecorder() (*settleRecorder, *Debouncer[string]) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := &settleRecorder{clock: clock.NewManual(start), start: start}
	return r, New(r.clock, 350*time.Millisecond, "", r.record)
}

func TestDebounceCollapsesBurst(t *testing.T) {
	r, d := newRecorder()

	d.Set("a")
	r.clock.Advance(100 * time.Millisecond)
	d.Set("ab")
	r.clock.Advance(100 * time.Millisecond)
	d.Set("abc")

	r.clock.Advance(349 * time.Millisecond)
	if len(r.values) != 0 {
		t.Fatalf("settled too early: %v", r.values)
	}
	if d.Value() != "" {
		t.Fatalf("unexpected settled value %q", d.Value())
	}

	r.clock.Advance(time.Millisecond)
	r.clock.Advance(time.Second)

	if diff := deep.Equal(r.values, []string{"abc"}); diff != nil {
		t.Fatal("settled values mismatch:", diff)
	}
	if r.at[0] != 550*time.Millisecond {
		t.Fatalf("settled at %v, expected 550ms", r.at[0])
	}
	if d.Pending() {
		t.Fatal("timer still pending after settling")
	}
}

func TestDebounceSingleTimer(t *testing.T) {
	r, d := newRecorder()

	for _, v := range []string{"t", "ta", "tay", "tayl"} {
		d.Set(v)
		if n := r.clock.Pending(); n != 1 {
			t.Fatalf("expected 1 pending timer, got %d", n)
		}
	}
}

func TestDebounceSameValue(t *testing.T) {
	r, d := newRecorder()

	d.Set("a")
	r.clock.Advance(time.Second)
	d.Set("a")

	if d.Pending() {
		t.Fatal("setting an unchanged value started a timer")
	}

	d.Set("ab")
	r.clock.Advance(100 * time.Millisecond)
	d.Set("a")
	r.clock.Advance(time.Second)

	// Returning to the settled value is not a change.
	if diff := deep.Equal(r.values, []string{"a"}); diff != nil {
		t.Fatal("settled values mismatch:", diff)
	}
}

func TestDebounceStop(t *testing.T) {
	r, d := newRecorder()

	d.Set("abc")
	d.Stop()
	r.clock.Advance(time.Second)

	if len(r.values) != 0 {
		t.Fatalf("timer fired after Stop: %v", r.values)
	}
	if r.clock.Pending() != 0 {
		t.Fatal("timer left pending after Stop")
	}

	d.Set("abcd")
	if d.Pending() {
		t.Fatal("Set after Stop started a timer")
	}
}

func TestDebounceReset(t *testing.T) {
	r, d := newRecorder()

	d.Set("abc")
	d.Reset("")
	r.clock.Advance(time.Second)

	if len(r.values) != 0 {
		t.Fatalf("reset did not cancel the timer: %v", r.values)
	}
	if d.Input() != "" || d.Value() != "" {
		t.Fatalf("unexpected state after reset: %q %q", d.Input(), d.Value())
	}
}

func TestDebounceDefaultDelay(t *testing.T) {
	c := clock.NewManual(time.Time{})
	var got []int
	d := New(c, 0, 0, func(v int) { got = append(got, v) })

	d.Set(1)
	c.Advance(DefaultDelay - time.Millisecond)
	if len(got) != 0 {
		t.Fatal("fired before the default delay")
	}
	c.Advance(time.Millisecond)
	if diff := deep.Equal(got, []int{1}); diff != nil {
		t.Fatal(diff)
	}
}
