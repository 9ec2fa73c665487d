package harness

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/roach88/pairs/internal/game"
	"github.com/roach88/pairs/internal/preset"
	"github.com/roach88/pairs/internal/store"
	"github.com/roach88/pairs/internal/testutil"
)

// ReplayReport compares a journaled run against a fresh re-execution.
type ReplayReport struct {
	RunID         string
	Recorded      int
	Replayed      int
	Deterministic bool
	Diffs         []string
}

// Replay re-drives a recorded run on a fake clock and checks that the same
// events come out.
//
// Recorded intents (dealt, flipped, cleared) are re-applied at their
// recorded offsets; matched, mismatched and won are outcomes and must be
// reproduced by the engine itself. Timing fields and session ids are not
// compared.
//
// A dealt event is replayed from the preset definition journaled with it.
// catalog is only consulted for events that carry no definition; nil means
// the built-ins.
func Replay(run store.Run, recorded []game.Event, catalog *preset.Catalog) (*ReplayReport, error) {
	if catalog == nil {
		catalog = preset.Builtin()
	}

	resolution, tick := runTimings(run)
	clk := testutil.NewFakeClock(testutil.Epoch)
	var replayed []game.Event
	engine := game.New(
		game.WithClock(clk),
		game.WithSeed(run.Seed),
		game.WithResolutionDelay(resolution),
		game.WithTickInterval(tick),
		game.WithIDGenerator(testutil.NewSequentialIDGenerator("replay")),
		game.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		game.WithObserver(game.ObserverFunc(func(u game.Update) {
			replayed = append(replayed, u.Events...)
		})),
	)
	defer engine.Close()

	for _, ev := range recorded {
		clk.AdvanceTo(testutil.Epoch.Add(ev.Offset))

		var err error
		switch ev.Kind {
		case game.EventDealt:
			var p preset.Preset
			p, err = dealtPreset(ev, catalog)
			if err != nil {
				return nil, fmt.Errorf("replay seq %d: %w", ev.Seq, err)
			}
			err = engine.ChooseDifficulty(p)
		case game.EventFlipped:
			if len(ev.Cards) != 1 {
				return nil, fmt.Errorf("replay seq %d: flipped event carries %d cards", ev.Seq, len(ev.Cards))
			}
			err = engine.Flip(ev.Cards[0])
		case game.EventCleared:
			err = engine.ClearDifficulty()
		}
		if err != nil {
			return nil, fmt.Errorf("replay seq %d %s: %w", ev.Seq, ev.Kind, err)
		}
	}

	// Let a trailing resolution settle.
	clk.Advance(resolution)

	report := &ReplayReport{
		RunID:    run.ID,
		Recorded: len(recorded),
		Replayed: len(replayed),
		Diffs:    diffEvents(recorded, replayed),
	}
	report.Deterministic = len(report.Diffs) == 0
	return report, nil
}

// dealtPreset returns the preset a dealt event was dealt from.
func dealtPreset(ev game.Event, catalog *preset.Catalog) (preset.Preset, error) {
	if ev.Definition == nil {
		return catalog.Lookup(ev.Preset)
	}
	p := ev.Definition.Clone()
	if p.Name != ev.Preset {
		return preset.Preset{}, fmt.Errorf("journaled definition is %q, event names %q", p.Name, ev.Preset)
	}
	if err := p.Validate(); err != nil {
		return preset.Preset{}, fmt.Errorf("journaled preset %q: %w", p.Name, err)
	}
	return p, nil
}

func runTimings(run store.Run) (resolution, tick time.Duration) {
	resolution, tick = run.ResolutionDelay, run.TickInterval
	if resolution <= 0 {
		resolution = game.DefaultResolutionDelay
	}
	if tick <= 0 {
		tick = game.DefaultTickInterval
	}
	return resolution, tick
}

func diffEvents(recorded, replayed []game.Event) []string {
	var diffs []string
	n := max(len(recorded), len(replayed))
	for i := range n {
		switch {
		case i >= len(recorded):
			diffs = append(diffs, fmt.Sprintf("event %d: unexpected %s", i, replayed[i].Kind))
		case i >= len(replayed):
			diffs = append(diffs, fmt.Sprintf("event %d: missing %s (seq %d)", i, recorded[i].Kind, recorded[i].Seq))
		default:
			if msg := compareEvent(recorded[i], replayed[i]); msg != "" {
				diffs = append(diffs, fmt.Sprintf("event %d (seq %d): %s", i, recorded[i].Seq, msg))
			}
		}
	}
	return diffs
}

func compareEvent(want, got game.Event) string {
	switch {
	case want.Kind != got.Kind:
		return fmt.Sprintf("kind %s, replayed %s", want.Kind, got.Kind)
	case want.Preset != got.Preset:
		return fmt.Sprintf("preset %q, replayed %q", want.Preset, got.Preset)
	case !slices.Equal(want.Layout, got.Layout):
		return "layout differs"
	case !slices.Equal(want.Cards, got.Cards):
		return fmt.Sprintf("cards %v, replayed %v", want.Cards, got.Cards)
	case !slices.Equal(want.Images, got.Images):
		return fmt.Sprintf("images %v, replayed %v", want.Images, got.Images)
	case want.Attempts != got.Attempts:
		return fmt.Sprintf("attempts %d, replayed %d", want.Attempts, got.Attempts)
	case want.MatchedPairs != got.MatchedPairs:
		return fmt.Sprintf("matched pairs %d, replayed %d", want.MatchedPairs, got.MatchedPairs)
	}
	return ""
}
