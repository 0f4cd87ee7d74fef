// Package watch monitors the narration audio tree and feeds measured shot
// durations back into stored projects. The expected layout is
// <root>/<project>/scene_NN/shot_NN.mp3; files outside that shape are
// ignored.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/storycut/storycut-agent/internal/measure"
	"github.com/storycut/storycut-agent/internal/storyboard"
)

// DefaultDebounce is how long a file must stay quiet before it is measured.
// Audio encoders write in bursts, so reacting to the first write would
// measure a truncated file.
const DefaultDebounce = 500 * time.Millisecond

var (
	sceneDirPattern = regexp.MustCompile(`^scene_(\d{2,})$`)
	shotFilePattern = regexp.MustCompile(`^shot_(\d{2,})\.mp3$`)
)

// ShotRef identifies the shot a narration file belongs to.
type ShotRef struct {
	Project string
	Scene   int
	Shot    int
}

// ParseShotAudioPath maps an absolute audio path back to its shot. The path
// must be <root>/<project>/scene_NN/shot_NN.mp3.
func ParseShotAudioPath(root, path string) (ShotRef, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return ShotRef{}, err
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 3 {
		return ShotRef{}, fmt.Errorf("path %q does not match project/scene_NN/shot_NN.mp3", rel)
	}

	sceneMatch := sceneDirPattern.FindStringSubmatch(parts[1])
	if sceneMatch == nil {
		return ShotRef{}, fmt.Errorf("directory %q is not a scene directory", parts[1])
	}
	shotMatch := shotFilePattern.FindStringSubmatch(strings.ToLower(parts[2]))
	if shotMatch == nil {
		return ShotRef{}, fmt.Errorf("file %q is not a shot narration file", parts[2])
	}

	scene, _ := strconv.Atoi(sceneMatch[1])
	shot, _ := strconv.Atoi(shotMatch[1])
	return ShotRef{Project: parts[0], Scene: scene, Shot: shot}, nil
}

// durationUpdater is the slice of the storyboard service the watcher needs.
type durationUpdater interface {
	UpdateShotDuration(ctx context.Context, name string, sceneNum, shotNum int, seconds float64) (*storyboard.Project, error)
}

// Watcher reacts to narration audio changes under a root directory.
type Watcher struct {
	root     string
	service  durationUpdater
	measurer measure.Measurer
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	timersMu sync.Mutex
	timers   map[string]*time.Timer

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// New creates a Watcher and starts watching root. A zero debounce selects
// DefaultDebounce.
func New(root string, service durationUpdater, measurer measure.Measurer, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		root:     root,
		service:  service,
		measurer: measurer,
		watcher:  fsw,
		logger:   logger,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}

	w.addWatchRecursive(root)

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Close stops the watcher and cleans up resources.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)

		w.timersMu.Lock()
		for path, timer := range w.timers {
			timer.Stop()
			delete(w.timers, path)
		}
		w.timersMu.Unlock()

		w.closeErr = w.watcher.Close()
		w.wg.Wait()
	})
	return w.closeErr
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addWatchRecursive(event.Name)
			return
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if _, err := ParseShotAudioPath(w.root, event.Name); err != nil {
		return
	}
	w.scheduleMeasure(event.Name)
}

// scheduleMeasure debounces per file: a burst of writes to the same path
// collapses to one measurement after the burst goes quiet.
func (w *Watcher) scheduleMeasure(path string) {
	select {
	case <-w.done:
		return
	default:
	}

	w.timersMu.Lock()
	defer w.timersMu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}

	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.timersMu.Lock()
		delete(w.timers, path)
		w.timersMu.Unlock()

		if err := w.processFile(context.Background(), path); err != nil {
			w.logger.Warn("narration file not applied", "path", path, "error", err)
		}
	})
}

// processFile measures one narration file and writes the result through the
// service. A failure affects only this file.
func (w *Watcher) processFile(ctx context.Context, path string) error {
	ref, err := ParseShotAudioPath(w.root, path)
	if err != nil {
		return err
	}

	seconds, err := w.measurer.Measure(path, "")
	if err != nil {
		return fmt.Errorf("failed to measure %q: %w", filepath.Base(path), err)
	}

	if _, err := w.service.UpdateShotDuration(ctx, ref.Project, ref.Scene, ref.Shot, seconds); err != nil {
		return err
	}

	w.logger.Info("shot duration measured from audio",
		"project", ref.Project, "scene", ref.Scene, "shot", ref.Shot, "seconds", seconds)
	return nil
}

func (w *Watcher) addWatchRecursive(path string) {
	filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("walk error", "path", p, "error", err)
			return nil
		}

		if d.IsDir() {
			if err := w.watcher.Add(p); err != nil {
				w.logger.Warn("watcher add failure", "path", p, "error", err)
			}
		}
		return nil
	})
}
