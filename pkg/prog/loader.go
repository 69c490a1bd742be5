package prog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/joshniemela/checkir/pkg/ir"
)

// Result pairs one discovered program file with its decoded program (or
// the error that prevented decoding it).
type Result struct {
	Path    string
	Program *ir.Program
	Err     error
}

// Stats mirrors the teacher's WalkerStats: counters a caller can report
// after a load, independent of the per-file Results already streamed.
type Stats struct {
	TotalFiles   int
	LoadedFiles  int
	SkippedFiles int
	ErrorFiles   int
}

// excludeFunc reports whether a discovered path should be skipped.
type excludeFunc func(relPath string) bool

// Loader discovers *.json IR program files under a root directory and
// decodes them concurrently with a bounded worker pool, mirroring the
// teacher's pkg/core.Walker: a file queue feeds fixed workers, results
// (decode errors included) stream out on one channel, and Stats accumulate under a
// mutex (spec.md's checker itself stays single-threaded and pure; this
// ambient loader is the only concurrency in the module).
type Loader struct {
	root    string
	exclude excludeFunc
	workers int

	fileQueue chan string
	resultCh  chan Result
	wg        sync.WaitGroup

	mu    sync.Mutex
	stats Stats
}

// NewLoader creates a Loader rooted at root with a worker per CPU.
func NewLoader(root string, exclude excludeFunc) *Loader {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	return &Loader{
		root:      root,
		exclude:   exclude,
		workers:   workers,
		fileQueue: make(chan string, 100),
		resultCh:  make(chan Result, 100),
	}
}

// WithWorkers overrides the worker count.
func (l *Loader) WithWorkers(n int) *Loader {
	if n > 0 {
		l.workers = n
	}
	return l
}

// Load discovers and decodes every program file under root, returning a
// channel of Results. The channel closes once every file has been
// produced.
func (l *Loader) Load() <-chan Result {
	for i := 0; i < l.workers; i++ {
		l.wg.Add(1)
		go l.worker()
	}

	go func() {
		err := filepath.Walk(l.root, l.visit)
		if err != nil {
			l.resultCh <- Result{Path: l.root, Err: fmt.Errorf("walk failed: %w", err)}
		}
		close(l.fileQueue)
	}()

	go func() {
		l.wg.Wait()
		close(l.resultCh)
	}()

	return l.resultCh
}

// LoadSync collects every Result synchronously, for callers (like
// cmd/checkir) that want the whole batch before proceeding.
func (l *Loader) LoadSync() []Result {
	var out []Result
	for r := range l.Load() {
		out = append(out, r)
	}
	return out
}

func (l *Loader) visit(path string, info os.FileInfo, err error) error {
	if err != nil {
		return nil
	}
	if info.IsDir() {
		if shouldSkipDir(info.Name()) {
			return filepath.SkipDir
		}
		return nil
	}
	if !strings.HasSuffix(strings.ToLower(path), ".json") {
		return nil
	}

	relPath, relErr := filepath.Rel(l.root, path)
	if relErr != nil {
		relPath = path
	}
	if l.exclude != nil && l.exclude(relPath) {
		l.mu.Lock()
		l.stats.SkippedFiles++
		l.mu.Unlock()
		return nil
	}

	l.mu.Lock()
	l.stats.TotalFiles++
	l.mu.Unlock()
	l.fileQueue <- path
	return nil
}

func (l *Loader) worker() {
	defer l.wg.Done()
	for path := range l.fileQueue {
		prg, err := loadFile(path)
		l.mu.Lock()
		if err != nil {
			l.stats.ErrorFiles++
		} else {
			l.stats.LoadedFiles++
		}
		l.mu.Unlock()
		l.resultCh <- Result{Path: path, Program: prg, Err: err}
	}
}

func shouldSkipDir(name string) bool {
	switch name {
	case ".git", "vendor", "node_modules", ".idea", ".vscode":
		return true
	default:
		return false
	}
}

// loadFile reads and decodes one IR program document.
func loadFile(path string) (*ir.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program file: %w", err)
	}
	var w wireProgram
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse program file: %w", err)
	}
	prog, err := decodeProgram(w)
	if err != nil {
		return nil, fmt.Errorf("failed to decode program: %w", err)
	}
	return prog, nil
}

// Stats returns a snapshot of the loader's counters.
func (l *Loader) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}
