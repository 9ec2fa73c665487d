package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/roach88/pairs/internal/game"
	"github.com/roach88/pairs/internal/preset"
	"github.com/roach88/pairs/internal/testutil"
)

// Result is the outcome of running a scenario.
type Result struct {
	Name   string
	Pass   bool
	Errors []string

	// Trace is the rendered event log, one line per event or step error.
	Trace []string

	// Final is the snapshot after the last step.
	Final game.State
}

// Harness holds the deterministic collaborators for one scenario run.
type Harness struct {
	clock   *testutil.FakeClock
	engine  *game.Engine
	catalog *preset.Catalog
	logger  *slog.Logger
	trace   []string
}

// Run executes a scenario on a fresh engine.
//
// Setup problems (bad presets) are returned as an error. Failed
// expectations are collected in Result.Errors and make Pass false.
func Run(scenario *Scenario) (*Result, error) {
	catalog, err := scenarioCatalog(scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	h := &Harness{
		clock:   testutil.NewFakeClock(testutil.Epoch),
		catalog: catalog,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	h.engine = game.New(
		game.WithClock(h.clock),
		game.WithSeed(scenario.Seed),
		game.WithIDGenerator(testutil.NewSequentialIDGenerator(scenario.Name)),
		game.WithLogger(h.logger),
		game.WithObserver(game.ObserverFunc(h.record)),
	)
	defer h.engine.Close()

	result := &Result{Name: scenario.Name}
	for i, step := range scenario.Steps {
		err := h.apply(step)
		code := ErrorCode(err)

		switch {
		case step.ExpectError != "" && code != step.ExpectError:
			result.Errors = append(result.Errors, fmt.Sprintf("steps[%d] %s: expected error %s, got %s", i, step.Action(), step.ExpectError, describe(err)))
		case step.ExpectError == "" && err != nil:
			result.Errors = append(result.Errors, fmt.Sprintf("steps[%d] %s: unexpected error: %v", i, step.Action(), err))
		}
		if err != nil {
			h.trace = append(h.trace, fmt.Sprintf("%s error %s code=%s", offset(h.clock.Elapsed()), step.Action(), code))
		}

		if step.Expect != nil {
			for _, msg := range checkExpect(step.Expect, h.engine.Snapshot()) {
				result.Errors = append(result.Errors, fmt.Sprintf("steps[%d] %s: %s", i, step.Action(), msg))
			}
		}
	}

	result.Final = h.engine.Snapshot()
	result.Trace = append(h.trace, summarize(result.Final))
	result.Pass = len(result.Errors) == 0
	return result, nil
}

func scenarioCatalog(s *Scenario) (*preset.Catalog, error) {
	presets := preset.Builtin().All()
	for _, spec := range s.Presets {
		presets = append(presets, spec.Preset())
	}
	return preset.NewCatalog(presets...)
}

func (h *Harness) apply(step Step) error {
	switch {
	case step.Choose != "":
		p, err := h.catalog.Lookup(step.Choose)
		if err != nil {
			return err
		}
		return h.engine.ChooseDifficulty(p)
	case step.Flip != nil:
		return h.engine.Flip(*step.Flip)
	case step.FlipImage != "":
		id, err := findImage(h.engine.Snapshot(), preset.ImageID(step.FlipImage))
		if err != nil {
			return err
		}
		return h.engine.Flip(id)
	case step.Advance != "":
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return err
		}
		h.clock.Advance(d)
		return nil
	case step.Tick:
		h.engine.Tick()
		return nil
	case step.Restart:
		return h.engine.Restart()
	case step.Clear:
		return h.engine.ClearDifficulty()
	}
	return fmt.Errorf("step has no action")
}

// errImageNotDealt is returned when flip_image names an image not on the board.
var errImageNotDealt = errors.New("image not dealt")

// findImage returns the lowest face-down card showing img, falling back to
// the lowest card showing it at all.
func findImage(s game.State, img preset.ImageID) (int, error) {
	fallback := -1
	for _, c := range s.Cards {
		if c.Image != img {
			continue
		}
		if !c.FaceUp && !c.Matched {
			return c.ID, nil
		}
		if fallback < 0 {
			fallback = c.ID
		}
	}
	if fallback < 0 {
		return 0, fmt.Errorf("%w: %q", errImageNotDealt, img)
	}
	return fallback, nil
}

// record renders engine events into trace lines.
func (h *Harness) record(u game.Update) {
	for _, ev := range u.Events {
		h.trace = append(h.trace, FormatEvent(ev))
	}
}

// FormatEvent renders an event without card ids, so the line does not
// depend on shuffle order when images are unique per deck.
func FormatEvent(ev game.Event) string {
	at := offset(ev.Offset)
	switch ev.Kind {
	case game.EventDealt:
		return fmt.Sprintf("%s dealt preset=%s cards=%d session=%s", at, ev.Preset, len(ev.Layout), ev.SessionID)
	case game.EventFlipped:
		return fmt.Sprintf("%s flipped image=%s", at, joinImages(ev.Images))
	case game.EventMatched:
		return fmt.Sprintf("%s matched image=%s attempts=%d pairs=%d", at, ev.Images[0], ev.Attempts, ev.MatchedPairs)
	case game.EventMismatched:
		return fmt.Sprintf("%s mismatched images=%s attempts=%d", at, joinImages(ev.Images), ev.Attempts)
	case game.EventWon:
		return fmt.Sprintf("%s won attempts=%d elapsed=%ds", at, ev.Attempts, ev.ElapsedSeconds)
	case game.EventCleared:
		return fmt.Sprintf("%s cleared preset=%s", at, ev.Preset)
	}
	return fmt.Sprintf("%s %s", at, ev.Kind)
}

func offset(d time.Duration) string {
	return fmt.Sprintf("+%dms", d.Milliseconds())
}

func joinImages(images []preset.ImageID) string {
	names := make([]string, len(images))
	for i, img := range images {
		names[i] = string(img)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func summarize(s game.State) string {
	difficulty := "none"
	pairs := 0
	if s.Difficulty != nil {
		difficulty = s.Difficulty.Name
		pairs = s.Difficulty.PairCount
	}
	return fmt.Sprintf("final difficulty=%s attempts=%d matched=%d/%d elapsed=%ds game_over=%t",
		difficulty, s.Attempts, s.MatchedPairs, pairs, s.ElapsedSeconds, s.IsGameOver())
}

// ErrorCode maps an error to the code used by expect_error.
// Returns "" for nil.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var ge *game.Error
	switch {
	case errors.As(err, &ge):
		return string(ge.Code)
	case preset.IsInsufficientImages(err):
		return "INSUFFICIENT_IMAGES"
	case errors.Is(err, preset.ErrUnknownPreset):
		return "UNKNOWN_PRESET"
	case errors.Is(err, errImageNotDealt):
		return "IMAGE_NOT_DEALT"
	}
	var ip *preset.InvalidPresetError
	if errors.As(err, &ip) {
		return "INVALID_PRESET"
	}
	return "ERROR"
}

func describe(err error) string {
	if err == nil {
		return "no error"
	}
	return ErrorCode(err) + " (" + err.Error() + ")"
}

func checkExpect(want *Expect, s game.State) []string {
	var errs []string
	checkInt := func(field string, want *int, got int) {
		if want != nil && *want != got {
			errs = append(errs, fmt.Sprintf("%s = %d, want %d", field, got, *want))
		}
	}
	checkBool := func(field string, want *bool, got bool) {
		if want != nil && *want != got {
			errs = append(errs, fmt.Sprintf("%s = %t, want %t", field, got, *want))
		}
	}

	if want.Difficulty != nil {
		got := ""
		if s.Difficulty != nil {
			got = s.Difficulty.Name
		}
		if got != *want.Difficulty {
			errs = append(errs, fmt.Sprintf("difficulty = %q, want %q", got, *want.Difficulty))
		}
	}
	checkInt("cards", want.Cards, len(s.Cards))
	checkInt("attempts", want.Attempts, s.Attempts)
	checkInt("matched_pairs", want.MatchedPairs, s.MatchedPairs)
	checkInt("pairs_remaining", want.PairsRemaining, s.PairsRemaining())
	checkInt("open", want.Open, len(s.Open()))
	checkBool("checking", want.Checking, s.Checking)
	checkBool("game_over", want.GameOver, s.IsGameOver())
	checkInt("elapsed_seconds", want.ElapsedSeconds, s.ElapsedSeconds)
	return errs
}
