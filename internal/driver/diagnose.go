package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"wals/internal/diag"
	"wals/internal/engine"
	"wals/internal/observ"
	"wals/internal/project"
	"wals/internal/source"
)

// Options control a multi-file run.
type Options struct {
	Engine *engine.Engine
	Eval   engine.Options
	// Jobs bounds parallel evaluations; zero means GOMAXPROCS.
	Jobs  int
	Cache *DiskCache
	// Salt identifies the rule set in cache keys. Different catalogues must
	// use different salts.
	Salt     string
	Progress ProgressSink
	Timings  bool
	// Match selects files while walking directories; nil accepts everything.
	Match  func(path string) bool
	Logger *slog.Logger
}

// FileResult is the outcome for a single document.
type FileResult struct {
	Path      string
	FileID    source.FileID
	Bag       *diag.Bag
	Truncated bool
	Cached    bool
	Err       error
	Timing    *observ.Report
}

// Result aggregates a run.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// HasErrors reports whether any document produced an error-severity diagnostic.
func (r *Result) HasErrors() bool {
	for _, f := range r.Files {
		if f.Bag != nil && f.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Failed returns the files that could not be loaded or evaluated.
func (r *Result) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// ListFiles expands paths into a sorted, de-duplicated file list. Directories
// are walked recursively; explicitly named files are always kept.
func ListFiles(paths []string, match func(string) bool) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, root := range paths {
		st, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// скрытые каталоги (.git, .cache) не обходим
				if p != root && len(d.Name()) > 1 && d.Name()[0] == '.' {
					return filepath.SkipDir
				}
				return nil
			}
			if match == nil || match(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	slices.Sort(out)
	return out, nil
}

// SettingsDigest folds the evaluation options and rule salt into a cache key part.
func SettingsDigest(opts engine.Options, salt string) project.Digest {
	return project.HashString(fmt.Sprintf("max=%d;level=%s;semx=%s;rules=%s",
		opts.MaxDiagnostics, opts.Level, strconv.FormatBool(opts.SemanticExclude), salt))
}

// Diagnose loads and evaluates every file under paths. Per-file failures are
// recorded on the FileResult; the returned error covers listing failures and
// cancellation.
func Diagnose(ctx context.Context, paths []string, opts Options) (*Result, error) {
	if opts.Engine == nil {
		return nil, errors.New("driver: no engine configured")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	files, err := ListFiles(paths, opts.Match)
	if err != nil {
		return nil, err
	}

	fileSet := source.NewFileSet()
	res := &Result{FileSet: fileSet, Files: make([]FileResult, len(files))}

	// FileSet не потокобезопасен, поэтому загрузка последовательная
	for i, p := range files {
		res.Files[i].Path = p
		emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusWorking})
		id, err := fileSet.Load(p)
		if err != nil {
			res.Files[i].Err = err
			emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		res.Files[i].FileID = id
		emit(opts.Progress, Event{File: p, Stage: StageEvaluate, Status: StatusQueued})
	}

	settings := SettingsDigest(opts.Eval, opts.Salt)
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i := range res.Files {
		fr := &res.Files[i]
		if fr.Err != nil {
			continue
		}
		g.Go(func() error {
			// индексы уникальны, мьютекс не нужен
			return diagnoseOne(gctx, fileSet.Get(fr.FileID), fr, settings, &opts, logger)
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

func diagnoseOne(ctx context.Context, file *source.File, fr *FileResult, settings project.Digest, opts *Options, logger *slog.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}
	started := time.Now()
	emit(opts.Progress, Event{File: fr.Path, Stage: StageEvaluate, Status: StatusWorking})

	limit := opts.Eval.MaxDiagnostics
	if limit <= 0 {
		limit = engine.DefaultMaxDiagnostics
	}
	fr.Bag = diag.NewBag(limit)

	key := project.Combine(file.Hash, settings)
	idx := timer.Begin("cache")
	var payload DiskPayload
	hit, err := opts.Cache.Get(key, &payload)
	if err != nil {
		logger.Warn("cache read failed", "path", fr.Path, "err", err)
		hit = false
	}
	timer.End(idx, strconv.FormatBool(hit))

	if hit {
		for _, d := range fromPayload(&payload, file.ID) {
			fr.Bag.Add(d)
		}
		fr.Truncated = payload.Truncated
		fr.Cached = true
	} else {
		idx = timer.Begin("evaluate")
		out, err := opts.Engine.Evaluate(ctx, engine.Document{File: file.ID, Text: string(file.Content)}, opts.Eval)
		timer.End(idx, fmt.Sprintf("%d diagnostics", len(out.Diagnostics)))
		for _, d := range out.Diagnostics {
			fr.Bag.Add(d)
		}
		fr.Truncated = out.Truncated
		if err != nil {
			// частичный результат сохраняем, но не кэшируем
			fr.Err = err
			emit(opts.Progress, Event{File: fr.Path, Stage: StageEvaluate, Status: StatusError, Err: err, Elapsed: time.Since(started)})
			return err
		}
		idx = timer.Begin("store")
		if err := opts.Cache.Put(key, toPayload(out.Diagnostics, out.Truncated)); err != nil {
			logger.Warn("cache write failed", "path", fr.Path, "err", err)
		}
		timer.End(idx, "")
	}

	fr.Timing = timer.Report()
	status := StatusDone
	if fr.Cached {
		status = StatusCached
	}
	emit(opts.Progress, Event{
		File:        fr.Path,
		Stage:       StageEvaluate,
		Status:      status,
		Elapsed:     time.Since(started),
		Diagnostics: fr.Bag.Len(),
	})
	return nil
}
