package services

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"github.com/kubev2v/jobgraph/internal/models"
	"github.com/kubev2v/jobgraph/pkg/scheduler"
)

// SourceScanner lexes every regular file of a directory, one job per file:
//
//	[Start] -> [Done]
//
// Start spawns a lex job per file and gives each one its own dependents, so
// Done runs after every file was lexed.
type SourceScanner struct {
	runTracker

	wp  *scheduler.WorkerPool
	dir string

	filesMu sync.Mutex
	files   []string

	results    *xsync.MapOf[string, models.ScanResult]
	doneWorker int
}

func NewSourceScanner(wp *scheduler.WorkerPool, dir string) *SourceScanner {
	return &SourceScanner{
		runTracker: newRunTracker(models.RunModeScan),
		wp:         wp,
		dir:        dir,
		results:    xsync.NewMapOf[string, models.ScanResult](),
	}
}

// Start lists the directory and submits the initial graph.
func (s *SourceScanner) Start() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read source directory %s: %w", s.dir, err)
	}
	if err := s.start(); err != nil {
		return err
	}

	for _, e := range entries {
		if e.Type().IsRegular() {
			s.addFile(filepath.Join(s.dir, e.Name()))
		}
	}

	start := s.wp.NewJob(s.lexStart)
	done := s.wp.NewJob(s.done).After(start.Job())
	return s.submitAll(namedJob{"lexer start", start}, namedJob{"done", done})
}

// Result returns the tokens of one file once it was lexed.
func (s *SourceScanner) Result(path string) (models.ScanResult, bool) {
	return s.results.Load(path)
}

// Summary aggregates the results collected so far, sorted by path.
func (s *SourceScanner) Summary() models.ScanSummary {
	summary := models.ScanSummary{}
	s.results.Range(func(_ string, r models.ScanResult) bool {
		summary.Files++
		summary.Words += r.Words
		summary.Tokens += len(r.Tokens)
		summary.Results = append(summary.Results, r)
		return true
	})
	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].Path < summary.Results[j].Path
	})

	s.mu.Lock()
	summary.DoneWorker = s.doneWorker
	s.mu.Unlock()
	return summary
}

func (s *SourceScanner) addFile(path string) {
	s.filesMu.Lock()
	defer s.filesMu.Unlock()
	s.files = append(s.files, path)
}

func (s *SourceScanner) nextFile() (string, bool) {
	s.filesMu.Lock()
	defer s.filesMu.Unlock()

	n := len(s.files)
	if n == 0 {
		return "", false
	}
	path := s.files[n-1]
	s.files = s.files[:n-1]
	return path, true
}

func (s *SourceScanner) lexStart(wp *scheduler.WorkerPool, worker int, self *scheduler.Job) error {
	zap.S().Named("scan_service").Debugw("lexer start", "worker", worker, "dir", s.dir)
	for path, ok := s.nextFile(); ok; path, ok = s.nextFile() {
		wp.NewJob(s.lexFile(path)).Continues(self).Submit()
	}
	return nil
}

func (s *SourceScanner) lexFile(path string) scheduler.Payload {
	return func(_ *scheduler.WorkerPool, worker int, _ *scheduler.Job) error {
		f, err := os.Open(path)
		if err != nil {
			err = fmt.Errorf("failed to open %s: %w", path, err)
			s.fail(err)
			return err
		}
		defer f.Close()

		words, tokens, err := Lex(f)
		if err != nil {
			err = fmt.Errorf("failed to lex %s: %w", path, err)
			s.fail(err)
			return err
		}

		zap.S().Named("scan_service").Debugw("lexed file", "path", path, "worker", worker, "tokens", len(tokens))
		s.results.Store(path, models.ScanResult{Path: path, Words: words, Tokens: tokens, Worker: worker})
		return nil
	}
}

func (s *SourceScanner) done(_ *scheduler.WorkerPool, worker int, _ *scheduler.Job) error {
	s.mu.Lock()
	s.doneWorker = worker
	s.mu.Unlock()

	zap.S().Named("scan_service").Infow("scan done", "worker", worker, "files", s.results.Size())
	s.complete()
	return nil
}

// Lex reads whitespace separated words from r. Words are matched case
// insensitively: "omg" shifts a zero bit into the current token, "why" shifts
// a one bit, "wtf" emits the token and starts a new one. Other words are
// counted and ignored.
func Lex(r io.Reader) (words int, tokens []uint64, err error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var current uint64
	for sc.Scan() {
		words++
		switch strings.ToLower(sc.Text()) {
		case "wtf":
			tokens = append(tokens, current)
			current = 0
		case "why":
			current = current*2 + 1
		case "omg":
			current *= 2
		}
	}
	return words, tokens, sc.Err()
}
