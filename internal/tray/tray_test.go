package tray

import (
	"context"
	"errors"
	"testing"
	"time"

	"dicetray/internal/animate"
	"dicetray/internal/dice"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// maxSource always returns the largest value, so every die rolls its top face.
type maxSource struct{}

func (maxSource) Intn(n int) int { return n - 1 }

type countingCue struct {
	plays int
	err   error
}

func (c *countingCue) Play(context.Context) error {
	c.plays++
	return c.err
}

func newTestTray(t *testing.T, src dice.Source) (*Tray, *animate.ManualClock, *countingCue) {
	t.Helper()
	clock := animate.NewManualClock(epoch)
	cue := &countingCue{}
	if src == nil {
		src = dice.NewSeededSource(99)
	}
	tr := New(Options{Scheduler: clock, Source: src, Cue: cue})
	return tr, clock, cue
}

func settle(t *testing.T, clock *animate.ManualClock) {
	t.Helper()
	if !clock.RunUntilIdle(100000) {
		t.Fatal("animations did not finish")
	}
}

func TestSelection_NeverNegative(t *testing.T) {
	s := NewSelection()
	ops := []struct {
		add  bool
		kind dice.Kind
	}{
		{false, dice.D6}, {true, dice.D6}, {false, dice.D6}, {false, dice.D6},
		{true, dice.D20}, {true, dice.D20}, {false, dice.D4}, {false, dice.D20},
	}
	for i, op := range ops {
		if op.add {
			s.Add(op.kind)
		} else {
			s.Remove(op.kind)
		}
		for _, k := range dice.Kinds {
			if s.Count(k) < 0 {
				t.Fatalf("step %d: %s count went negative", i, k)
			}
		}
	}
	if s.Count(dice.D6) != 0 || s.Count(dice.D20) != 1 || s.Total() != 1 {
		t.Errorf("unexpected counts: d6=%d d20=%d total=%d", s.Count(dice.D6), s.Count(dice.D20), s.Total())
	}
	if s.Remove(dice.D12) {
		t.Error("Remove on zero count reported a change")
	}
}

func TestSelection_SnapshotAndClear(t *testing.T) {
	s := NewSelection()
	s.Add(dice.D8)
	s.Add(dice.D8)
	cfg := s.SnapshotAndClear()
	if cfg[dice.D8] != 2 {
		t.Errorf("Expected snapshot d8=2, got %d", cfg[dice.D8])
	}
	if !s.IsEmpty() {
		t.Error("Expected selection cleared after snapshot")
	}
	s.Add(dice.D4)
	if cfg[dice.D4] != 0 {
		t.Error("snapshot must not alias the live selection")
	}
}

func TestConfiguration_NotationAndExpand(t *testing.T) {
	cfg := Configuration{dice.D20: 1, dice.D6: 2, dice.D8: 0}
	if got := cfg.Notation(); got != "2d6 + 1d20" {
		t.Errorf("Notation() = %q, want %q", got, "2d6 + 1d20")
	}
	want := []dice.Kind{dice.D6, dice.D6, dice.D20}
	got := cfg.Expand()
	if len(got) != len(want) {
		t.Fatalf("Expand() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expand()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name        string
		selection   Configuration
		stored      Configuration
		wantLabel   string
		wantEnabled bool
	}{
		{"nothing", Configuration{}, Configuration{}, "Select dice", false},
		{"selection", Configuration{dice.D6: 2, dice.D20: 1}, Configuration{}, "Roll: 2d6 + 1d20", true},
		{"selection wins", Configuration{dice.D4: 1}, Configuration{dice.D6: 1}, "Roll: 1d4", true},
		{"repeat", Configuration{}, Configuration{dice.D6: 1}, "Roll Again: 1d6", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, enabled := Label(tt.selection, tt.stored)
			if label != tt.wantLabel || enabled != tt.wantEnabled {
				t.Errorf("Label() = %q/%v, want %q/%v", label, enabled, tt.wantLabel, tt.wantEnabled)
			}
		})
	}
}

func TestTray_InitialView(t *testing.T) {
	tr, _, _ := newTestTray(t, nil)
	v := tr.View()
	if v.Label != "Select dice" || v.Enabled {
		t.Errorf("Expected disabled select prompt, got %q enabled=%v", v.Label, v.Enabled)
	}
	if v.ShowSum || len(v.Dice) != 0 || len(v.Selection) != 0 {
		t.Errorf("Expected empty view, got %+v", v)
	}
}

func TestTray_SelectionScenario(t *testing.T) {
	tr, _, _ := newTestTray(t, nil)
	tr.AddDie(dice.D6)
	tr.AddDie(dice.D6)
	tr.AddDie(dice.D20)

	v := tr.View()
	if v.Label != "Roll: 2d6 + 1d20" || !v.Enabled {
		t.Errorf("got %q enabled=%v", v.Label, v.Enabled)
	}
	if len(v.Selection) != 3 {
		t.Fatalf("Expected 3 selected indicators, got %d", len(v.Selection))
	}
	if v.Selection[2].Kind != dice.D20 || v.Selection[2].Asset != "d20_face20.png" {
		t.Errorf("unexpected indicator %+v", v.Selection[2])
	}

	tr.RemoveDie(dice.D6)
	if got := tr.View().Label; got != "Roll: 1d6 + 1d20" {
		t.Errorf("after remove got %q", got)
	}
}

func TestTray_BatchRoll(t *testing.T) {
	tr, clock, cue := newTestTray(t, nil)
	tr.AddDie(dice.D20)
	tr.AddDie(dice.D6)
	tr.AddDie(dice.D6)

	tr.BatchRoll()
	if cue.plays != 1 {
		t.Errorf("Expected sound on roll, got %d plays", cue.plays)
	}
	if !tr.Selection().IsEmpty() {
		t.Error("Expected selection cleared at roll time")
	}
	v := tr.View()
	if !v.Rolling || v.ShowSum {
		t.Errorf("Expected rolling view without sum, got rolling=%v showSum=%v", v.Rolling, v.ShowSum)
	}
	if len(v.Dice) != 3 {
		t.Fatalf("Expected 3 animating dice, got %d", len(v.Dice))
	}
	if v.Label != "Roll Again: 2d6 + 1d20" {
		t.Errorf("label during roll = %q", v.Label)
	}
	if len(tr.Result()) != 0 {
		t.Error("Result must not be committed before animations finish")
	}

	settle(t, clock)

	res := tr.Result()
	want := []dice.Kind{dice.D6, dice.D6, dice.D20}
	if len(res) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(res))
	}
	for i, e := range res {
		if e.Kind != want[i] {
			t.Errorf("entry %d kind %s, want %s", i, e.Kind, want[i])
		}
		if e.Value < 1 || e.Value > e.Kind.Faces() {
			t.Errorf("entry %d value %d out of range", i, e.Value)
		}
	}

	v = tr.View()
	if v.Rolling || !v.ShowSum || v.Sum != res.Sum() {
		t.Errorf("Expected settled view with sum %d, got %+v", res.Sum(), v)
	}
	for i, d := range v.Dice {
		if d.Face != res[i].Value || d.Rolling {
			t.Errorf("die %d shows %d rolling=%v, want %d settled", i, d.Face, d.Rolling, res[i].Value)
		}
	}
}

func TestTray_RollAgain(t *testing.T) {
	tr, clock, _ := newTestTray(t, nil)
	tr.InstantRoll(dice.D6)
	settle(t, clock)

	if got := tr.View().Label; got != "Roll Again: 1d6" {
		t.Fatalf("label = %q, want Roll Again: 1d6", got)
	}

	tr.BatchRoll()
	settle(t, clock)
	res := tr.Result()
	if len(res) != 1 || res[0].Kind != dice.D6 {
		t.Errorf("Expected one d6 entry, got %+v", res)
	}
	if got := tr.View().Label; got != "Roll Again: 1d6" {
		t.Errorf("label after repeat = %q", got)
	}
}

func TestTray_SelectionInvalidatesStored(t *testing.T) {
	tr, clock, _ := newTestTray(t, nil)
	tr.AddDie(dice.D8)
	tr.BatchRoll()
	settle(t, clock)

	tr.AddDie(dice.D4)
	tr.RemoveDie(dice.D4)
	if !tr.Configuration().IsEmpty() {
		t.Error("Expected stored configuration cleared by selection edit")
	}
	if v := tr.View(); v.Enabled || v.Label != "Select dice" {
		t.Errorf("Expected disabled prompt, got %q enabled=%v", v.Label, v.Enabled)
	}
	// The committed result survives selection edits.
	if len(tr.Result()) != 1 {
		t.Errorf("Expected result kept, got %d entries", len(tr.Result()))
	}
}

func TestTray_BatchRollNothingIsNoop(t *testing.T) {
	tr, clock, cue := newTestTray(t, nil)
	tr.BatchRoll()
	if cue.plays != 0 || clock.Pending() != 0 || tr.Rolling() {
		t.Errorf("Expected no-op, got plays=%d pending=%d rolling=%v", cue.plays, clock.Pending(), tr.Rolling())
	}
}

func TestTray_InstantRollD10Ten(t *testing.T) {
	tr, clock, cue := newTestTray(t, maxSource{})
	tr.AddDie(dice.D4)
	tr.InstantRoll(dice.D10)
	if cue.plays != 1 {
		t.Errorf("Expected sound on instant roll, got %d", cue.plays)
	}
	settle(t, clock)

	res := tr.Result()
	if len(res) != 1 || res[0].Kind != dice.D10 || res[0].Value != 10 {
		t.Fatalf("Expected single d10 of 10, got %+v", res)
	}
	v := tr.View()
	if v.Sum != 10 || !v.ShowSum {
		t.Errorf("Expected sum 10, got %d (show=%v)", v.Sum, v.ShowSum)
	}
	if v.Dice[0].Face != 10 || v.Dice[0].Asset != "d10_face10.png" {
		t.Errorf("Expected face 10 asset d10_face10.png, got %+v", v.Dice[0])
	}
	if tr.Selection()[dice.D4] != 1 {
		t.Error("instant roll must not alter the selection")
	}
	if cfg := tr.Configuration(); len(cfg) != 1 || cfg[dice.D10] != 1 {
		t.Errorf("Expected stored configuration {d10:1}, got %v", cfg)
	}
}

func TestTray_InstantRollUsesShorterDuration(t *testing.T) {
	tr, clock, _ := newTestTray(t, maxSource{})
	tr.InstantRoll(dice.D6)
	clock.Advance(animate.InstantParams.MaxDuration + animate.InstantParams.MaxInterval)
	if tr.Rolling() {
		t.Error("instant roll still animating past its longest duration")
	}
}

func TestTray_RerollOnlyTouchesOneEntry(t *testing.T) {
	tr, clock, cue := newTestTray(t, nil)
	tr.AddDie(dice.D4)
	tr.AddDie(dice.D6)
	tr.BatchRoll()
	settle(t, clock)

	before := tr.Result()
	if before[0].Kind != dice.D4 || before[1].Kind != dice.D6 {
		t.Fatalf("unexpected expansion %+v", before)
	}

	for i := 0; i < 2; i++ {
		if err := tr.RerollIndex(0); err != nil {
			t.Fatalf("RerollIndex(0): %v", err)
		}
		settle(t, clock)
		after := tr.Result()
		if after[1] != before[1] {
			t.Fatalf("re-roll %d changed the d6 entry: %+v -> %+v", i, before[1], after[1])
		}
		if after[0].Kind != dice.D4 || after[0].Value < 1 || after[0].Value > 4 {
			t.Errorf("re-rolled entry invalid: %+v", after[0])
		}
		if v := tr.View(); v.Sum != after.Sum() {
			t.Errorf("sum %d, want %d", v.Sum, after.Sum())
		}
	}
	if cue.plays != 3 {
		t.Errorf("Expected 3 sound cues (roll + 2 re-rolls), got %d", cue.plays)
	}
}

func TestTray_RerollInFlightRejected(t *testing.T) {
	tr, clock, _ := newTestTray(t, nil)
	tr.AddDie(dice.D6)
	tr.AddDie(dice.D8)
	tr.BatchRoll()
	settle(t, clock)

	if err := tr.RerollIndex(0); err != nil {
		t.Fatalf("first re-roll: %v", err)
	}
	if err := tr.RerollIndex(0); !errors.Is(err, ErrRerollInFlight) {
		t.Errorf("Expected ErrRerollInFlight, got %v", err)
	}
	v := tr.View()
	if !v.Dice[0].Rolling || v.Dice[1].Rolling {
		t.Errorf("Expected only die 0 non-interactive, got %+v", v.Dice)
	}
	if err := tr.RerollIndex(1); err != nil {
		t.Errorf("other index should re-roll independently: %v", err)
	}
	settle(t, clock)
	if err := tr.RerollIndex(0); err != nil {
		t.Errorf("re-roll after settling: %v", err)
	}
}

func TestTray_RerollOutOfRange(t *testing.T) {
	tr, clock, cue := newTestTray(t, nil)
	if err := tr.RerollIndex(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange on empty result, got %v", err)
	}

	tr.AddDie(dice.D12)
	tr.BatchRoll()
	settle(t, clock)
	before := tr.Result()
	plays := cue.plays

	for _, idx := range []int{-1, 1, 50} {
		if err := tr.RerollIndex(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("RerollIndex(%d): expected ErrIndexOutOfRange, got %v", idx, err)
		}
	}
	if clock.Pending() != 0 || cue.plays != plays {
		t.Error("invalid re-roll must not start an animation or play sound")
	}
	if after := tr.Result(); after[0] != before[0] {
		t.Errorf("result changed: %+v -> %+v", before, after)
	}
}

func TestTray_RerollDuringRollRejected(t *testing.T) {
	tr, clock, _ := newTestTray(t, nil)
	tr.AddDie(dice.D6)
	tr.BatchRoll()
	settle(t, clock)

	tr.BatchRoll()
	if err := tr.RerollIndex(0); !errors.Is(err, ErrRollInFlight) {
		t.Errorf("Expected ErrRollInFlight, got %v", err)
	}
	settle(t, clock)
}

func TestTray_SupersededRollDiscarded(t *testing.T) {
	tr, clock, _ := newTestTray(t, nil)
	tr.AddDie(dice.D20)
	tr.AddDie(dice.D20)
	tr.AddDie(dice.D20)
	tr.BatchRoll()

	clock.Advance(10 * time.Millisecond)
	tr.InstantRoll(dice.D4)
	settle(t, clock)

	res := tr.Result()
	if len(res) != 1 || res[0].Kind != dice.D4 {
		t.Fatalf("Expected the instant d4 to win, got %+v", res)
	}
	if v := tr.View(); len(v.Dice) != 1 || v.Dice[0].Kind != dice.D4 {
		t.Errorf("view shows stale dice: %+v", v.Dice)
	}
}

func TestTray_RerollOfReplacedResultDiscarded(t *testing.T) {
	tr, clock, _ := newTestTray(t, nil)
	tr.AddDie(dice.D6)
	tr.AddDie(dice.D6)
	tr.BatchRoll()
	settle(t, clock)

	if err := tr.RerollIndex(1); err != nil {
		t.Fatal(err)
	}
	tr.InstantRoll(dice.D8)
	settle(t, clock)

	res := tr.Result()
	if len(res) != 1 || res[0].Kind != dice.D8 {
		t.Errorf("Expected single d8 result, got %+v", res)
	}
}

func TestTray_SoundFailureDoesNotBlock(t *testing.T) {
	clock := animate.NewManualClock(epoch)
	cue := &countingCue{err: errors.New("autoplay blocked")}
	tr := New(Options{Scheduler: clock, Source: dice.NewSeededSource(1), Cue: cue})

	tr.InstantRoll(dice.D12)
	settle(t, clock)
	if len(tr.Result()) != 1 {
		t.Error("Expected roll to commit despite sound failure")
	}
}

func TestTray_OnChangeTracksCommits(t *testing.T) {
	tr, clock, _ := newTestTray(t, nil)
	var views []View
	tr.OnChange(func(v View) { views = append(views, v) })

	tr.AddDie(dice.D6)
	tr.BatchRoll()
	settle(t, clock)

	if len(views) < 3 {
		t.Fatalf("Expected several views, got %d", len(views))
	}
	last := views[len(views)-1]
	if !last.ShowSum || last.Sum != tr.Result().Sum() {
		t.Errorf("last view sum %d show=%v, want %d", last.Sum, last.ShowSum, tr.Result().Sum())
	}

	n := len(views)
	if err := tr.RerollIndex(0); err != nil {
		t.Fatal(err)
	}
	settle(t, clock)
	final := views[len(views)-1]
	if len(views) <= n || final.Sum != tr.Result().Sum() || final.Dice[0].Rolling {
		t.Errorf("Expected a final view after re-roll commit with the new sum, got %+v", final)
	}
}

func TestResult_SumNormalizesD10(t *testing.T) {
	r := Result{{Kind: dice.D10, Value: 0}, {Kind: dice.D6, Value: 3}}
	if got := r.Sum(); got != 13 {
		t.Errorf("Sum() = %d, want 13", got)
	}
}
