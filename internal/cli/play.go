package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/roach88/pairs/internal/clock"
	"github.com/roach88/pairs/internal/config"
	"github.com/roach88/pairs/internal/game"
	"github.com/roach88/pairs/internal/preset"
	"github.com/roach88/pairs/internal/store"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	ConfigFlags
	Difficulty string
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		Long: `Play a memory game, one command per line:

  flip N | f N | N     turn card N face-up
  restart              deal again at the same difficulty
  difficulty NAME      switch difficulty (name or label)
  menu                 leave the current game
  show                 redraw the board
  presets              list difficulties
  quit                 exit

Every event is recorded to the journal (--journal, $PAIRS_JOURNAL).

Examples:
  pairs play --difficulty easy
  pairs play --difficulty Mittel --seed 7 --journal ./pairs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Difficulty, "difficulty", "d", "", "start with this preset")
	opts.bindSeed(cmd)
	opts.bindJournal(cmd, "SQLite journal path (default $PAIRS_JOURNAL, in-memory when unset)")
	opts.bindPresets(cmd)

	return cmd
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(cmd, &opts.ConfigFlags)
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load presets", err)
	}

	st, err := store.Open(cfg.Journal)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer st.Close()

	out := &syncWriter{w: cmd.OutOrStdout()}
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	cfg.Seed = resolveSeed(cfg.Seed)
	s, err := newPlaySession(ctx, playDeps{
		cfg:     cfg,
		catalog: catalog,
		store:   st,
		clock:   clock.System{},
		out:     out,
		logger:  logger,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start game", err)
	}
	defer s.close()

	fmt.Fprintf(out, "Run %s, seed %d. Type \"help\" for commands.\n", s.recorder.RunID(), cfg.Seed)
	if opts.Difficulty != "" {
		s.handle("difficulty " + opts.Difficulty)
	} else {
		s.handle("presets")
	}

	if err := s.run(ctx, cmd.InOrStdin()); err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	if failed, firstErr := s.recorder.Failures(); failed > 0 {
		return WrapExitError(ExitCommandError, fmt.Sprintf("%d journal writes failed", failed), firstErr)
	}
	return nil
}

// syncWriter serializes writes from the input loop and from engine timers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type playDeps struct {
	cfg     config.Config
	catalog *preset.Catalog
	store   *store.Store
	clock   clock.Clock
	out     io.Writer
	logger  *slog.Logger
}

// playSession wires one engine to the terminal and the journal.
type playSession struct {
	engine   *game.Engine
	catalog  *preset.Catalog
	recorder *store.Recorder
	out      io.Writer
}

func newPlaySession(ctx context.Context, deps playDeps) (*playSession, error) {
	run := store.Run{
		ID:              game.UUIDv7Generator{}.Generate(),
		Seed:            deps.cfg.Seed,
		ResolutionDelay: deps.cfg.ResolutionDelay,
		TickInterval:    deps.cfg.TickInterval,
		StartedAt:       deps.clock.Now(),
	}
	// Journal writes outlive an interrupt so the events leading up to it
	// are kept.
	rec, err := store.NewRecorder(context.WithoutCancel(ctx), deps.store, run, deps.logger)
	if err != nil {
		return nil, err
	}

	s := &playSession{catalog: deps.catalog, recorder: rec, out: deps.out}
	s.engine = game.New(
		game.WithClock(deps.clock),
		game.WithSeed(deps.cfg.Seed),
		game.WithResolutionDelay(deps.cfg.ResolutionDelay),
		game.WithTickInterval(deps.cfg.TickInterval),
		game.WithLogger(deps.logger),
		game.WithObserver(rec),
		game.WithObserver(game.ObserverFunc(s.onUpdate)),
	)
	return s, nil
}

// run executes commands read from in until quit, end of input or ctx is
// done. An interrupt is a clean exit.
func (s *playSession) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out, "\nInterrupted.")
			return nil
		case err := <-readErr:
			return err
		case line := <-lines:
			if s.handle(line) {
				return nil
			}
		}
	}
}

func (s *playSession) close() {
	s.engine.Close()
}

// onUpdate reports resolutions, which arrive from the engine's timers.
func (s *playSession) onUpdate(u game.Update) {
	for _, ev := range u.Events {
		switch ev.Kind {
		case game.EventMatched:
			fmt.Fprintf(s.out, "Pair found: %s\n", ev.Images[0])
		case game.EventMismatched:
			fmt.Fprintf(s.out, "No match: %s / %s\n", ev.Images[0], ev.Images[1])
		case game.EventWon:
			fmt.Fprintf(s.out, "You won! %d attempts, %d seconds.\n", ev.Attempts, ev.ElapsedSeconds)
		default:
			continue
		}
		s.draw(u.State)
	}
}

func (s *playSession) draw(st game.State) {
	var b strings.Builder
	renderBoard(&b, st)
	renderStatus(&b, st)
	io.WriteString(s.out, b.String())
}

// handle executes one input line and reports whether to quit.
func (s *playSession) handle(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	verb, rest := strings.ToLower(fields[0]), strings.Join(fields[1:], " ")

	if id, err := strconv.Atoi(verb); err == nil {
		s.flip(id)
		return false
	}

	switch verb {
	case "flip", "f":
		id, err := strconv.Atoi(rest)
		if err != nil {
			fmt.Fprintf(s.out, "Usage: flip N\n")
			return false
		}
		s.flip(id)
	case "restart", "r":
		s.report(s.engine.Restart())
		s.draw(s.engine.Snapshot())
	case "difficulty", "d":
		p, err := s.catalog.Lookup(rest)
		if err != nil {
			s.report(err)
			return false
		}
		if err := s.engine.ChooseDifficulty(p); err != nil {
			s.report(err)
			return false
		}
		s.draw(s.engine.Snapshot())
	case "menu", "m":
		s.report(s.engine.ClearDifficulty())
		s.listPresets()
	case "show", "s":
		s.engine.Tick()
		s.draw(s.engine.Snapshot())
	case "presets", "p":
		s.listPresets()
	case "help", "h", "?":
		fmt.Fprintln(s.out, "Commands: flip N, restart, difficulty NAME, menu, show, presets, quit")
	case "quit", "q", "exit":
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type \"help\".\n", verb)
	}
	return false
}

func (s *playSession) flip(id int) {
	if err := s.engine.Flip(id); err != nil {
		s.report(err)
		return
	}
	st := s.engine.Snapshot()
	if !st.Checking {
		s.draw(st)
		return
	}
	// Both cards stay visible until the comparison resolves.
	renderBoard(s.out, st)
}

func (s *playSession) listPresets() {
	fmt.Fprintln(s.out, "Choose a difficulty:")
	for _, p := range s.catalog.All() {
		fmt.Fprintf(s.out, "  %s (%s): %d pairs\n", p.Name, p.Title(), p.PairCount)
	}
}

func (s *playSession) report(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(s.out, "Error [%s]: %v\n", ErrorCode(err), err)
}
