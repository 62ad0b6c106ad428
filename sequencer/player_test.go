package sequencer

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-smfplay/config"
	"go-smfplay/midi"
	"go-smfplay/smf"
)

// noteTrack builds a track of note-ons on channel 0 at the given absolute
// ticks, using note numbers from notes.
func noteTrack(ticks []uint64, notes []smf.Note) *smf.Track {
	tr := &smf.Track{}
	var prev uint64
	for i, tick := range ticks {
		tr.Append(smf.NewNoteOn(tick-prev, 0, notes[i], 100))
		prev = tick
	}
	return tr
}

func twoTrackSequence() *smf.Sequence {
	return &smf.Sequence{
		HeaderFormat: 1,
		Division:     smf.QuarterNote(96),
		Tracks: []*smf.Track{
			noteTrack([]uint64{0, 2, 5}, []smf.Note{60, 62, 64}),
			noteTrack([]uint64{1, 2, 6}, []smf.Note{70, 72, 74}),
		},
	}
}

func sentNotes(r *midi.Recorder) []uint8 {
	var notes []uint8
	for _, m := range r.Messages() {
		if m.Status()&0xF0 == midi.NoteOn {
			notes = append(notes, m.Data0())
		}
	}
	return notes
}

func equalBytes(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMergeOrder(t *testing.T) {
	merged := Merge(twoTrackSequence())
	want := []struct {
		tick  uint64
		track int
	}{{0, 0}, {1, 1}, {2, 0}, {2, 1}, {5, 0}, {6, 1}}
	if len(merged) != len(want) {
		t.Fatalf("merged %d events", len(merged))
	}
	for i, w := range want {
		if merged[i].Tick() != w.tick || merged[i].Track != w.track {
			t.Errorf("merged[%d] = tick %d track %d, want tick %d track %d",
				i, merged[i].Tick(), merged[i].Track, w.tick, w.track)
		}
	}
}

func TestPlayMatchesMergeOrder(t *testing.T) {
	want := []uint8{60, 70, 62, 72, 64, 74}
	for _, step := range []config.StepMode{config.StepJump, config.StepTick} {
		t.Run(string(step), func(t *testing.T) {
			rec := midi.NewRecorder()
			res, err := Play(context.Background(), twoTrackSequence(), rec, Options{Step: step, Clock: newFakeClock()})
			if err != nil {
				t.Fatal(err)
			}
			if got := sentNotes(rec); !equalBytes(got, want) {
				t.Errorf("notes = %v, want %v", got, want)
			}
			if res.Sent != 6 || res.Tick != 6 {
				t.Errorf("result = %+v", res)
			}
		})
	}
}

func TestPlayDeadlinesFromAnchor(t *testing.T) {
	seq := &smf.Sequence{
		Division: smf.QuarterNote(96),
		Tracks:   []*smf.Track{noteTrack([]uint64{0, 96, 192}, []smf.Note{60, 62, 64})},
	}

	clock := newFakeClock()
	anchor := clock.Now()
	if _, err := Play(context.Background(), seq, midi.NewRecorder(), Options{Clock: clock}); err != nil {
		t.Fatal(err)
	}
	got := clock.offsets(anchor)
	if len(got) != 2 || got[0] != 500*time.Millisecond || got[1] != time.Second {
		t.Errorf("jump deadlines = %v", got)
	}

	clock = newFakeClock()
	anchor = clock.Now()
	if _, err := Play(context.Background(), seq, midi.NewRecorder(), Options{Step: config.StepTick, Clock: clock}); err != nil {
		t.Fatal(err)
	}
	got = clock.offsets(anchor)
	if len(got) != 192 {
		t.Fatalf("tick mode slept %d times, want 192", len(got))
	}
	// 500000/96 is not a whole number of nanoseconds; deadlines must
	// still land exactly on the quarter notes
	if got[95] != 500*time.Millisecond || got[191] != time.Second {
		t.Errorf("tick deadlines drifted: %v, %v", got[95], got[191])
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("deadline %d not increasing: %v <= %v", i, got[i], got[i-1])
		}
	}
}

func TestTempoChangeRebasesDeadlines(t *testing.T) {
	conductor := &smf.Track{}
	conductor.Append(smf.NewSetTempo(96, 250000))
	seq := &smf.Sequence{
		HeaderFormat: 1,
		Division:     smf.QuarterNote(96),
		Tracks: []*smf.Track{
			conductor,
			noteTrack([]uint64{0, 96, 192}, []smf.Note{60, 62, 64}),
		},
	}

	clock := newFakeClock()
	anchor := clock.Now()
	res, err := Play(context.Background(), seq, midi.NewRecorder(), Options{Clock: clock})
	if err != nil {
		t.Fatal(err)
	}
	got := clock.offsets(anchor)
	want := []time.Duration{500 * time.Millisecond, 750 * time.Millisecond}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("deadlines = %v, want %v", got, want)
	}
	if res.Tempo != 250000 || res.Elapsed != 750*time.Millisecond {
		t.Errorf("result = %+v", res)
	}
	if tm := NewTempoMap(seq); tm.Length() != 750*time.Millisecond || tm.TempoAt(95) != smf.DefaultTempo {
		t.Errorf("tempo map length %v, tempo@95 %d", tm.Length(), tm.TempoAt(95))
	}
}

func TestSMPTEPlaybackIgnoresTempo(t *testing.T) {
	tr := &smf.Track{}
	tr.Append(smf.NewSetTempo(0, 1000000))
	tr.Append(smf.NewNoteOn(100, 0, 60, 100))
	seq := &smf.Sequence{Division: smf.SMPTE(25, 40), Tracks: []*smf.Track{tr}}

	clock := newFakeClock()
	anchor := clock.Now()
	if _, err := Play(context.Background(), seq, midi.NewRecorder(), Options{Clock: clock}); err != nil {
		t.Fatal(err)
	}
	if got := clock.offsets(anchor); len(got) != 1 || got[0] != 100*time.Millisecond {
		t.Errorf("deadlines = %v", got)
	}
}

func TestSinkErrorsDoNotStopPlayback(t *testing.T) {
	rec := midi.NewRecorder()
	boom := errors.New("device unplugged")
	rec.FailWith(func(m midi.ShortMessage) error {
		if m.Data0() == 62 {
			return boom
		}
		return nil
	})

	var seen []Emitted
	res, err := Play(context.Background(), twoTrackSequence(), rec, Options{
		Clock:  newFakeClock(),
		OnEmit: func(e Emitted) { seen = append(seen, e) },
	})
	if err != nil {
		t.Fatalf("Play = %v", err)
	}
	if res.Sent != 5 || len(res.Errors) != 1 {
		t.Fatalf("sent %d, errors %v", res.Sent, res.Errors)
	}
	if !errors.Is(res.Errors[0], midi.ErrSink) || !errors.Is(res.Errors[0], boom) {
		t.Errorf("error = %v", res.Errors[0])
	}
	if len(seen) != 6 || seen[2].Err == nil {
		t.Errorf("OnEmit saw %d events, third err %v", len(seen), seen[2].Err)
	}
}

// plainSink returns bare errors, not *midi.SinkError.
type plainSink struct{ err error }

func (s plainSink) Send(midi.ShortMessage) error { return s.err }

func TestAbortOnError(t *testing.T) {
	boom := errors.New("boom")
	res, err := Play(context.Background(), twoTrackSequence(), plainSink{boom}, Options{
		Clock:        newFakeClock(),
		AbortOnError: true,
	})
	if !errors.Is(err, midi.ErrSink) || !errors.Is(err, boom) {
		t.Fatalf("Play = %v", err)
	}
	if res.Tick != 0 || len(res.Errors) != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestCancelStopsAtPassBoundary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := newFakeClock()
	clock.onSleep = func(n int) { cancel() }
	rec := midi.NewRecorder()

	_, err := Play(ctx, twoTrackSequence(), rec, Options{Clock: clock})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Play = %v", err)
	}
	if got := sentNotes(rec); !equalBytes(got, []uint8{60}) {
		t.Errorf("sent %v after cancel", got)
	}
}

func TestPlayRealClock(t *testing.T) {
	tr := &smf.Track{}
	tr.Append(smf.NewSetTempo(0, 2000)) // 2ms per quarter
	tr.Append(smf.NewNoteOn(0, 0, 60, 100))
	tr.Append(smf.NewNoteOn(480, 0, 60, 0))
	tr.Append(smf.NewEndOfTrack(0))
	seq := &smf.Sequence{Division: smf.QuarterNote(480), Tracks: []*smf.Track{tr}}

	start := time.Now()
	res, err := Play(context.Background(), seq, midi.NewRecorder(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if took := time.Since(start); took < 2*time.Millisecond {
		t.Errorf("played %v, faster than the 2ms schedule", took)
	}
	if res.Sent != 2 || res.Elapsed != 2*time.Millisecond {
		t.Errorf("result = %+v", res)
	}
}

func TestPlayHugeDelta(t *testing.T) {
	seq := &smf.Sequence{
		Division: smf.QuarterNote(96),
		Tracks:   []*smf.Track{noteTrack([]uint64{0, 1 << 40}, []smf.Note{60, 62})},
	}
	clock := newFakeClock()
	anchor := clock.Now()

	if _, err := Play(context.Background(), seq, midi.NewRecorder(), Options{Clock: clock}); err != nil {
		t.Fatal(err)
	}
	got := clock.offsets(anchor)
	if len(got) != 1 || got[0] != 5726623061333333333 {
		t.Fatalf("deadline offsets = %v, want one at 2^40 ticks", got)
	}
	if tm := NewTempoMap(seq); tm.Length() != got[0] {
		t.Errorf("Length = %d, want %d", tm.Length(), got[0])
	}
}
