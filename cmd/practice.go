package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bep/debounce"
	"github.com/charmbracelet/log"
	"github.com/jsphweid/eartrainer/engine"
	"github.com/jsphweid/eartrainer/keyboard"
	"github.com/jsphweid/eartrainer/matcher"
	"github.com/jsphweid/eartrainer/model"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(practiceCmd)
}

var practiceCmd = &cobra.Command{
	Use:   "practice " + melodyArgsUsage,
	Short: "Plays a melody and checks what you play back on a MIDI keyboard",
	Long: `Plays a melody, then listens on --midi-in and compares every key you
press against it. After a wrong note and --replay-after seconds of silence
the melody is played again.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, ref, err := loadMelody(args)
		if err != nil {
			return err
		}
		return practice(cmd.Context(), seq, ref)
	},
}

// trainer feeds key presses into a matcher and asks for a replay once the
// learner goes quiet after a mistake.
type trainer struct {
	mu       sync.Mutex
	m        *matcher.Matcher
	replay   func()
	debounce func(func())
	// a wrong note was played and the melody has not been replayed since
	owed bool
	done chan struct{}
	once sync.Once
}

func newTrainer(target model.Sequence, policy matcher.Policy, replayAfter time.Duration, replay func()) *trainer {
	m := matcher.New(policy)
	m.Reset(target)
	t := &trainer{m: m, replay: replay, done: make(chan struct{})}
	if replayAfter > 0 {
		t.debounce = debounce.New(replayAfter)
	}
	if m.Status() == matcher.StatusComplete {
		t.once.Do(func() { close(t.done) })
	}
	return t
}

func (t *trainer) press(p string) matcher.Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	res := t.m.Submit(p)
	if res.Status == matcher.StatusIncorrect {
		t.owed = true
	}
	if res.Status == matcher.StatusComplete {
		t.owed = false
		t.once.Do(func() { close(t.done) })
		return res
	}
	if t.owed && t.debounce != nil {
		t.debounce(t.fire)
	}
	return res
}

func (t *trainer) fire() {
	t.mu.Lock()
	owed := t.owed
	t.owed = false
	t.mu.Unlock()
	if owed {
		t.replay()
	}
}

func (t *trainer) attempt(melodyID string) model.MelodyAttempt {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.m.Attempt(melodyID, time.Now())
}

func practice(ctx context.Context, seq model.Sequence, ref melodyRef) error {
	logger := log.FromContext(ctx)
	defer closeDriver()

	p, err := openProgress(ctx)
	if err != nil {
		return err
	}
	eng, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("listen", "melody", ref, "notes", len(seq))
	first := eng.PlaySequence(seq)
	select {
	case <-first.Done():
	case <-ctx.Done():
		eng.Cancel(first)
		return nil
	}

	var replaying *engine.Session
	var replayMu sync.Mutex
	t := newTrainer(seq, cfg.Policy, time.Duration(cfg.ReplayAfter*float64(time.Second)), func() {
		logger.Info("listen again")
		replayMu.Lock()
		replaying = eng.PlaySequence(seq)
		replayMu.Unlock()
	})

	stopListening, err := keyboard.Listen(cfg.MidiIn, logger, func(k keyboard.Key) {
		if !k.On {
			return
		}
		res := t.press(k.Pitch)
		switch res.Status {
		case matcher.StatusCorrect:
			logger.Info("correct", "position", res.Position+1, "pitch", res.Played)
		case matcher.StatusIncorrect:
			logger.Warn("wrong note", "position", res.Position+1, "played", res.Played, "expected", res.Expected)
		}
	})
	if err != nil {
		return err
	}
	defer stopListening()

	logger.Info("your turn", "policy", cfg.Policy)
	select {
	case <-t.done:
	case <-ctx.Done():
		return nil
	}

	replayMu.Lock()
	if replaying != nil {
		eng.Cancel(replaying)
	}
	replayMu.Unlock()

	attempt := t.attempt(ref.String())
	if attempt.Success {
		logger.Info("perfect", "melody", ref)
	} else {
		logger.Info("finished", "melody", ref, "wrong", len(attempt.WrongNotes))
		for _, w := range attempt.WrongNotes {
			fmt.Printf("  position %d: expected %s, played %s\n", w.Position+1, w.Expected, w.Played)
		}
	}

	if ref.unitID == 0 {
		return nil
	}
	return p.RecordAttempt(ctx, ref.unitID, attempt)
}
