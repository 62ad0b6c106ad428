package sequencer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	charmlog "github.com/charmbracelet/log"

	"go-smfplay/config"
	"go-smfplay/debug"
	"go-smfplay/midi"
	"go-smfplay/smf"
)

// Options controls one playback run.
type Options struct {
	// Step is StepJump (default) or StepTick. Both emit the same messages
	// at the same deadlines; tick mode wakes once per tick.
	Step config.StepMode
	// AbortOnError stops playback at the first sink failure.
	AbortOnError bool
	// Clock defaults to SystemClock.
	Clock Clock
	// OnEmit, when set, is called after every event is handled.
	OnEmit func(Emitted)
}

// Emitted describes one handled event.
type Emitted struct {
	Track int
	Tick  uint64
	At    time.Duration // deadline offset from playback start
	Event smf.Event
	Err   error // sink failure, channel events only
}

// Result summarises a playback run.
type Result struct {
	Sent    int     // channel messages accepted by the sink
	Errors  []error // sink failures, each a *midi.SinkError
	Tick    uint64  // last tick reached
	Elapsed time.Duration
	Tempo   smf.Tempo // tempo in effect at the end
}

// Play sends the sequence's channel events to sink in real time.
//
// One cursor per track is swept forward: every pass emits, track by track,
// all events due at the current tick, then advances the tick and sleeps
// until anchor + offset(tick). Set Tempo events re-base the offset
// computation. Cancellation is checked once per pass.
//
// Sink failures are logged and collected in Result.Errors. They end
// playback only with AbortOnError, in which case the failure is returned.
// A cancelled ctx returns ctx.Err().
func Play(ctx context.Context, seq *smf.Sequence, sink midi.Sink, opts Options) (Result, error) {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}
	log := charmlog.FromContext(ctx)

	var res Result
	tl := newTimeline(seq.Division)
	cursors := newCursors(seq)
	anchor := clock.Now()
	tick := uint64(0)

	log.Debug("playback start", "tracks", len(cursors), "division", seq.Division, "step", opts.Step)

	for {
		if err := ctx.Err(); err != nil {
			res.finish(tick, tl)
			return res, err
		}

		pending := false
		next := uint64(math.MaxUint64)
		for _, c := range cursors {
			for {
				ev, ok := c.NextDue(tick)
				if !ok {
					break
				}
				if err := emit(log, sink, tl, &res, c.index, tick, ev, opts); err != nil {
					res.finish(tick, tl)
					return res, err
				}
			}
			if ev := c.Peek(); ev != nil {
				pending = true
				next = min(next, ev.Timestamp())
			}
		}
		if !pending {
			break
		}

		if opts.Step == config.StepTick {
			tick++
		} else {
			tick = next
		}
		if err := clock.SleepUntil(ctx, anchor.Add(tl.At(tick))); err != nil {
			res.finish(tick, tl)
			return res, err
		}
	}

	res.finish(tick, tl)
	log.Debug("playback done", "sent", res.Sent, "errors", len(res.Errors), "elapsed", res.Elapsed)
	return res, nil
}

func (r *Result) finish(tick uint64, tl *timeline) {
	r.Tick = tick
	r.Elapsed = tl.At(tick)
	r.Tempo = tl.tempo
}

func emit(log *charmlog.Logger, sink midi.Sink, tl *timeline, res *Result, track int, tick uint64, ev smf.Event, opts Options) error {
	out := Emitted{Track: track, Tick: tick, Event: ev}

	switch ev := ev.(type) {
	case *smf.SetTempo:
		tl.SetTempo(tick, ev.Tempo)
		log.Debug("tempo", "tick", tick, "tempo", ev.Tempo, "bpm", fmt.Sprintf("%.2f", ev.Tempo.BPM()))
	case smf.ChannelEvent:
		msg := midi.ShortMessage(ev.Binary())
		if err := sink.Send(msg); err != nil {
			var se *midi.SinkError
			if !errors.As(err, &se) {
				err = &midi.SinkError{Msg: msg, Err: err}
			}
			out.Err = err
			res.Errors = append(res.Errors, err)
			log.Warn("sink write failed", "track", track, "tick", tick, "status", fmt.Sprintf("%02X", msg.Status()), "err", err)
		} else {
			res.Sent++
			debug.LogEvery(256, "emit", "track=%d tick=%d msg=%s", track, tick, msg)
		}
	}

	out.At = tl.At(tick)
	if opts.OnEmit != nil {
		opts.OnEmit(out)
	}
	if out.Err != nil && opts.AbortOnError {
		return out.Err
	}
	return nil
}
