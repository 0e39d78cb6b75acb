package driver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"bindoc/internal/assemble"
	"bindoc/internal/diag"
	"bindoc/internal/directive"
	"bindoc/internal/extract"
	"bindoc/internal/project"
	"bindoc/internal/source"
	"bindoc/internal/trace"
	"bindoc/internal/typegraph"
)

// Options configures one pipeline run. Zero values fall back to the
// manifest (see OptionsFromManifest) or to built-in defaults.
type Options struct {
	Jobs              int
	MaxDiagnostics    int
	WarningsAsErrors  bool
	RootType          string
	Registration      string
	CheckRegistration bool
	Table             *typegraph.Table
	Progress          ProgressSink
}

// OptionsFromManifest copies the relevant [model] and [diagnostics] keys.
func OptionsFromManifest(m *project.Manifest) Options {
	if m == nil {
		return Options{}
	}
	return Options{
		MaxDiagnostics:    m.Config.Diagnostics.Max,
		WarningsAsErrors:  m.Config.Diagnostics.WarningsAsErrors,
		RootType:          m.Config.Model.RootType,
		Registration:      m.Config.Model.Registration,
		CheckRegistration: m.Config.Model.CheckRegistration,
	}
}

// FileResult is the extraction outcome of one source file.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Extract extract.Result
	Bag     *diag.Bag
	Elapsed time.Duration
	LoadErr error
}

// Result holds everything a run produced.
type Result struct {
	Root     string
	Files    []FileResult
	FileSet  *source.FileSet
	Registry *directive.Registry
	Graph    *typegraph.Graph
	Bag      *diag.Bag
	Summary  assemble.Summary
	Digest   project.Digest
	Timings  Timings
	Elapsed  time.Duration

	// Duplicates counts assembler reports dropped as exact repeats.
	Duplicates int
}

// HasErrors reports whether the run left error diagnostics.
func (r *Result) HasErrors() bool {
	return r != nil && r.Bag != nil && r.Bag.HasErrors()
}

// Run lists the project sources and runs the pipeline over them.
func Run(ctx context.Context, m *project.Manifest, opts Options) (*Result, error) {
	files, err := ListSources(m)
	if err != nil {
		return nil, err
	}
	res, err := RunFiles(ctx, m.Root, files, opts)
	if err != nil {
		return res, err
	}
	res.Digest = ModelDigest(m, res)
	return res, nil
}

// ModelDigest combines the manifest hash with the hashes of every loaded
// file, in path order.
func ModelDigest(m *project.Manifest, res *Result) project.Digest {
	digests := make([]project.Digest, 0, len(res.Files))
	for _, fr := range res.Files {
		if f := res.FileSet.Get(fr.FileID); f != nil && fr.LoadErr == nil {
			digests = append(digests, project.Digest(f.Hash))
		}
	}
	return project.Combine(m.Digest, digests...)
}

// RunFiles runs load, extraction and assembly over files. The paths must
// be sorted: file ids, block order and thus the graph follow that order.
func RunFiles(ctx context.Context, root string, files []string, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	runSpan := trace.Begin(tracer, trace.ScopeDriver, "pipeline", trace.CurrentSpan(ctx)).
		WithExtra("files", fmt.Sprint(len(files)))
	ctx = trace.WithSpan(ctx, runSpan)
	defer runSpan.End("")

	sink := opts.Progress
	if sink == nil {
		sink = nopSink{}
	}
	registration, err := extract.CompileRegistration(opts.Registration)
	if err != nil {
		return nil, fmt.Errorf("[model].registration: %w", err)
	}
	rootType := opts.RootType
	if rootType == "" {
		rootType = typegraph.DefaultRoot
	}
	table := opts.Table
	if table == nil {
		table = typegraph.DefaultTable()
	}

	res := &Result{
		Root:     root,
		FileSet:  source.NewFileSetWithBase(root),
		Registry: directive.NewRegistry(),
	}
	for _, path := range files {
		sink.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// Load: последовательно, чтобы FileID шли в порядке путей
	start := time.Now()
	loadSpan := trace.Begin(tracer, trace.ScopePass, "load", runSpan.ID())
	res.Files = make([]FileResult, len(files))
	for i, path := range files {
		fileID, loadErr := res.FileSet.Load(path)
		if loadErr != nil {
			// пустой файл-заглушка, чтобы диагностика указывала на путь
			fileID = res.FileSet.AddVirtual(path, nil)
		}
		res.Files[i] = FileResult{Path: path, FileID: fileID, LoadErr: loadErr}
	}
	res.Timings.Set(StageLoad, loadSpan.End(""))

	// Extract
	extractSpan := trace.Begin(tracer, trace.ScopePass, "extract", runSpan.ID())
	if err := extractAll(ctx, res, extract.Options{Registration: registration}, opts.Jobs, sink, extractSpan.ID()); err != nil {
		extractSpan.End(err.Error())
		trace.Error(tracer, "extract", err)
		return res, err
	}
	res.Timings.Set(StageExtract, extractSpan.End(""))

	// Merge в порядке путей, затем сборка модели
	all := diag.NewBag(0)
	for _, fr := range res.Files {
		all.Merge(fr.Bag)
		if fr.LoadErr == nil {
			res.Registry.Add(fr.Path, fr.Extract.Blocks)
		}
	}
	if len(files) == 0 {
		all.Add(diag.Diagnostic{
			Severity: diag.SevWarning,
			Code:     diag.ProjNoSources,
			Message:  "no source files found under " + root,
		})
	}

	sink.OnEvent(Event{Stage: StageAssemble, Status: StatusWorking})
	assembleSpan := trace.Begin(tracer, trace.ScopePass, "assemble", runSpan.ID())
	res.Graph = typegraph.NewGraphWithTable(rootType, table)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: all})
	res.Summary = assemble.Run(res.Graph, res.Registry.Blocks(), rep,
		assemble.Options{CheckRegistration: opts.CheckRegistration})
	res.Duplicates = rep.Suppressed()
	assembleSpan.WithExtra("types", fmt.Sprint(res.Summary.Types))
	assembleSpan.WithExtra("duplicates", fmt.Sprint(res.Duplicates))
	res.Timings.Set(StageAssemble, assembleSpan.End(""))
	sink.OnEvent(Event{Stage: StageAssemble, Status: StatusDone})

	res.Elapsed = time.Since(start)
	res.Bag = finalizeBag(all, opts)
	return res, nil
}

func extractAll(ctx context.Context, res *Result, xopts extract.Options, jobs int, sink ProgressSink, parent uint64) error {
	if len(res.Files) == 0 {
		return nil
	}
	// Настраиваем параллелизм
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	tracer := trace.FromContext(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(res.Files)))
	for i := range res.Files {
		g.Go(func() error {
			// Проверка отмены между файлами
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			fr := &res.Files[i] // индекс уникален для горутины, мьютекс не нужен
			fr.Bag = diag.NewBag(0)
			if fr.LoadErr != nil {
				fr.Bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  fmt.Sprintf("failed to load %s: %v", fr.Path, fr.LoadErr),
					Primary:  source.Span{File: fr.FileID},
				})
				sink.OnEvent(Event{File: fr.Path, Stage: StageExtract, Status: StatusError, Err: fr.LoadErr})
				return nil
			}

			sink.OnEvent(Event{File: fr.Path, Stage: StageExtract, Status: StatusWorking})
			span := trace.Begin(tracer, trace.ScopeFile, "extract_file", parent).WithExtra("path", fr.Path)
			file := res.FileSet.Get(fr.FileID)
			fr.Extract = extract.File(file, xopts, diag.BagReporter{Bag: fr.Bag})
			fr.Elapsed = span.End(fmt.Sprintf("%d blocks", len(fr.Extract.Blocks)))

			status := StatusDone
			if fr.Bag.HasErrors() {
				status = StatusError
			}
			sink.OnEvent(Event{File: fr.Path, Stage: StageExtract, Status: status, Elapsed: fr.Elapsed})
			return nil
		})
	}
	return g.Wait()
}

// finalizeBag sorts and deduplicates the diagnostics, applies
// warnings_as_errors and then the output limit.
func finalizeBag(all *diag.Bag, opts Options) *diag.Bag {
	all.Sort()
	all.Dedup()
	if opts.WarningsAsErrors {
		all.Transform(func(d *diag.Diagnostic) {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
		})
		all.Sort()
	}
	out := diag.NewBag(opts.MaxDiagnostics)
	for _, d := range all.Items() {
		out.Add(d)
	}
	return out
}
