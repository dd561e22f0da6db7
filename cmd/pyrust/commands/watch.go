package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/pyrust/am"
	"github.com/teranos/pyrust/errors"
	"github.com/teranos/pyrust/logger"
)

// WatchCmd re-translates AST documents whenever they change
var WatchCmd = &cobra.Command{
	Use:   "watch <ast-file>...",
	Short: "Re-translate whenever an AST document changes",
	Long: `Translate the given AST documents, then keep translating them each time
one of them is rewritten. Edits to the project ` + am.ProjectConfigName + ` are picked
up too; flags given on the command line keep overriding the file.

A failed translation is reported and the watch continues. Stop with Ctrl-C.

Examples:
  pyrust watch -o out app.ast.json
  pyrust watch -o out --cargo --cache pkg/*.ast.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

// DefaultWatchDebounce coalesces the burst of events a single save produces.
const DefaultWatchDebounce = 200 * time.Millisecond

func init() {
	addTranslateFlags(WatchCmd)
	WatchCmd.Flags().Duration("debounce", DefaultWatchDebounce, "Quiet period before re-translating after a change")
}

// watchSession owns the translator for a running watch. Only the loop
// goroutine touches the translator; config reloads hand over a new config.
type watchSession struct {
	cmd      *cobra.Command
	files    []string
	watched  map[string]bool
	debounce time.Duration
	trigger  chan struct{}

	mu   sync.Mutex
	next *am.Config

	t *translator
}

func newWatchSession(cmd *cobra.Command, files []string, cfg *am.Config, debounce time.Duration) (*watchSession, error) {
	s := &watchSession{
		cmd:      cmd,
		files:    files,
		watched:  make(map[string]bool, len(files)),
		debounce: debounce,
		trigger:  make(chan struct{}, 1),
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", f)
		}
		s.watched[abs] = true
	}
	if err := s.configure(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// configure swaps in a translator built from base plus the command's flags.
func (s *watchSession) configure(base *am.Config) error {
	cfg, err := applyFlags(s.cmd, base)
	if err != nil {
		return err
	}
	t, err := newTranslator(cfg)
	if err != nil {
		return err
	}
	if s.t != nil {
		if err := s.t.Close(); err != nil {
			logger.Warnw("closing previous translator", logger.FieldError, err)
		}
	}
	s.t = t
	return nil
}

// reconfigure queues a reloaded config for the next run. It is the
// config watcher's reload callback.
func (s *watchSession) reconfigure(cfg *am.Config) error {
	if _, err := applyFlags(s.cmd, cfg); err != nil {
		return err
	}
	s.mu.Lock()
	s.next = cfg
	s.mu.Unlock()
	select {
	case s.trigger <- struct{}{}:
	default:
	}
	return nil
}

func (s *watchSession) runOnce(ctx context.Context) {
	s.mu.Lock()
	next := s.next
	s.next = nil
	s.mu.Unlock()

	if next != nil {
		if err := s.configure(next); err != nil {
			pterm.Error.Printfln("keeping previous configuration: %v", err)
		}
	}
	if err := s.t.run(ctx, s.cmd, s.files); err != nil {
		if ctx.Err() != nil {
			return
		}
		pterm.Error.Println(err.Error())
		for _, hint := range errors.GetAllHints(err) {
			pterm.Info.Println(hint)
		}
	}
}

// dirs returns the distinct directories holding the watched files.
func (s *watchSession) dirs() []string {
	seen := make(map[string]bool)
	var out []string
	for abs := range s.watched {
		dir := filepath.Dir(abs)
		if !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
		}
	}
	return out
}

// loop runs a translation now and after every debounced change until ctx
// is done.
func (s *watchSession) loop(ctx context.Context, watcher *fsnotify.Watcher) error {
	s.runOnce(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.watched[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if logger.ShouldOutput(Verbosity, logger.OutputWatchEvents) {
				pterm.Info.Printfln("%s %s", event.Op, event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("watch error", logger.FieldError, err)

		case <-fire:
			fire = nil
			s.runOnce(ctx)

		case <-s.trigger:
			s.runOnce(ctx)
		}
	}
}

func (s *watchSession) Close() error {
	return s.t.Close()
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	base, err := LoadConfig()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	debounce, _ := cmd.Flags().GetDuration("debounce")
	s, err := newWatchSession(cmd, args, base, debounce)
	if err != nil {
		return err
	}
	defer s.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	defer watcher.Close()
	for _, dir := range s.dirs() {
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	// An explicit --config file is fixed for the session.
	if path := am.ProjectConfigPath(); path != "" && ConfigFile == "" {
		cw, err := am.NewConfigWatcher(path)
		if err != nil {
			logger.Warnw("config changes will not be picked up", logger.FieldPath, path, logger.FieldError, err)
		} else {
			cw.OnReload(s.reconfigure)
			cw.Start()
			am.SetGlobalWatcher(cw)
			defer func() {
				am.SetGlobalWatcher(nil)
				cw.Stop()
			}()
		}
	}

	pterm.Info.Printfln("Watching %d file(s), Ctrl-C to stop", len(args))
	return s.loop(ctx, watcher)
}
