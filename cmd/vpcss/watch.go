package main

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yacobolo/vpcss"
	"github.com/yacobolo/vpcss/internal/editor"
	"github.com/yacobolo/vpcss/internal/report"
)

var watchCmd = &cobra.Command{
	Use:   "watch [patterns...]",
	Short: "Recompile the stylesheet whenever a block document changes",
	Long: `Compile once, then watch the directories of the include patterns. Changed
documents re-register their blocks; registrations arriving close together
are batched into one rebuild.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringSlice("include", nil, "Glob patterns for block documents")
	f.StringP("output", "o", "", "Output file (default: stdout)")
	f.String("format", "css", "Output format: css|json|inline")
	f.Duration("delay", editor.DefaultDelay, "Quiet period before a rebuild")
	_ = watchCmd.RegisterFlagCompletionFunc("format", fixedCompletion("css", "json", "inline"))
}

// watchSession tracks which blocks each watched document contributed.
type watchSession struct {
	config    vpcss.Config
	editor    *editor.Editor
	useColors bool
	quiet     bool

	mu       sync.Mutex
	files    map[string]string   // block id → document
	fileIDs  map[string][]string // document → block ids
	rebuilds int
}

func runWatch(cmd *cobra.Command, args []string) error {
	config, err := buildCompileConfig(args)
	if err != nil {
		return err
	}
	s := &watchSession{
		config:    config,
		editor:    vpcss.NewEditor(config),
		useColors: report.ShouldUseColors(getBoolWithFallback("color", "color", false)),
		quiet:     getBoolWithFallback("quiet", "quiet", false),
		files:     map[string]string{},
		fileIDs:   map[string][]string{},
	}

	// 1. Initial build
	docs, _, warnings, err := vpcss.LoadDocuments(config.Includes, config.Verbose)
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	s.warn(warnings)
	for _, doc := range docs {
		s.track(doc)
	}
	s.rebuild()

	// 2. Watch the pattern directories
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()
	for _, dir := range watchDirs(config.Includes) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	delay, _ := cmd.Flags().GetDuration("delay")
	sched := editor.NewScheduler(s.editor, delay)
	sched.OnFlush(func([]string) { s.rebuild() })

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if !s.quiet {
		fmt.Fprintf(os.Stderr, "Watching %s (Ctrl+C to stop)\n", strings.Join(config.Includes, ", "))
	}

	// 3. Event loop
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.warn([]string{err.Error()})
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = watcher.Add(ev.Name)
					continue
				}
			}
			if !s.matches(ev.Name) {
				continue
			}
			s.handle(ev, sched)
		}
	}
}

// handle re-registers the blocks of a changed document through sched, or
// forgets them when the document is gone.
func (s *watchSession) handle(ev fsnotify.Event, sched *editor.Scheduler) {
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		if s.forget(ev.Name, nil) > 0 {
			s.rebuild()
		}
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	doc, err := vpcss.LoadDocument(ev.Name)
	if err != nil {
		s.warn([]string{err.Error()})
		return
	}
	keep := map[string]bool{}
	for _, b := range doc.Blocks {
		keep[b.ID] = true
	}
	removed := s.forget(doc.Path, keep)

	ids, warnings := s.claim(doc, func(b *vpcss.DocumentBlock) { sched.Schedule(b.ID, b.Attributes) })
	s.warn(warnings)

	if len(ids) == 0 && removed > 0 {
		s.rebuild()
	}
}

// track registers the blocks of doc directly.
func (s *watchSession) track(doc *vpcss.Document) {
	_, warnings := s.claim(doc, func(b *vpcss.DocumentBlock) { s.editor.Register(b.ID, b.Attributes) })
	s.warn(warnings)
}

// claim records doc as the source of its blocks and hands each block not
// claimed by another document to register.
func (s *watchSession) claim(doc *vpcss.Document, register func(*vpcss.DocumentBlock)) ([]string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids, warnings []string
	for _, b := range doc.Blocks {
		if prev, ok := s.files[b.ID]; ok && prev != doc.Path {
			warnings = append(warnings, fmt.Sprintf("Block %s in %s already defined in %s", b.ID, doc.Path, prev))
			continue
		}
		s.files[b.ID] = doc.Path
		ids = append(ids, b.ID)
		register(b)
	}
	s.fileIDs[doc.Path] = ids
	return ids, warnings
}

// forget removes the blocks path contributed that are not in keep and
// returns how many were removed.
func (s *watchSession) forget(path string, keep map[string]bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, id := range s.fileIDs[path] {
		if keep[id] {
			continue
		}
		s.editor.Remove(id)
		delete(s.files, id)
		removed++
	}
	delete(s.fileIDs, path)
	return removed
}

// rebuild compiles every block and writes the output.
func (s *watchSession) rebuild() {
	s.mu.Lock()
	files := make(map[string]string, len(s.files))
	for id, f := range s.files {
		files[id] = f
	}
	s.rebuilds++
	n := s.rebuilds
	s.mu.Unlock()

	result, err := vpcss.CompileBlocks(s.editor, s.editor.IDs(), files)
	if err != nil {
		s.warn([]string{err.Error()})
		return
	}
	if s.config.Output == "" {
		if err := vpcss.WriteCompileOutput(os.Stdout, result, s.config.Format); err != nil {
			s.warn([]string{err.Error()})
		}
		return
	}
	if err := vpcss.WriteOutputFile(s.config.Output, result, s.config.Format); err != nil {
		s.warn([]string{err.Error()})
		return
	}
	if !s.quiet {
		fmt.Fprintf(os.Stderr, "%s #%d: %d blocks, %d rules → %s\n",
			report.RenderStyle(report.StyleGreen, "✓ Rebuilt", s.useColors), n, result.BlocksCompiled, result.Spectrums, s.config.Output)
	}
}

func (s *watchSession) warn(warnings []string) {
	if s.quiet {
		return
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "%s %s\n", report.RenderStyle(report.StyleYellow, "Warning:", s.useColors), w)
	}
}

// matches reports whether path is a document of the include patterns and
// not the output itself.
func (s *watchSession) matches(path string) bool {
	if s.config.Output != "" && filepath.Clean(path) == filepath.Clean(s.config.Output) {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
	default:
		return false
	}
	for _, pattern := range s.config.Includes {
		if ok, _ := doublestar.PathMatch(filepath.Clean(pattern), filepath.Clean(path)); ok {
			return true
		}
	}
	return false
}

// watchDirs returns the existing directories below the static prefix of
// each pattern. fsnotify does not watch recursively.
func watchDirs(patterns []string) []string {
	seen := map[string]bool{}
	var dirs []string
	for _, pattern := range patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		root := filepath.FromSlash(base)
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if !seen[path] {
				seen[path] = true
				dirs = append(dirs, path)
			}
			return nil
		})
	}
	return dirs
}
