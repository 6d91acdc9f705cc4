package driver

import (
	"fmt"

	"errtax/internal/diag"
	"errtax/internal/emit"
	"errtax/internal/observ"
	"errtax/internal/parser"
	"errtax/internal/source"
)

// Options управляет компиляцией одного файла.
type Options struct {
	// MaxDiagnostics ограничивает размер Bag результата.
	MaxDiagnostics int

	// Cache, если задан, подменяет компиляцию попаданием по хешу
	// содержимого. Промахи дозаписываются после успешной компиляции.
	Cache *DiskCache
}

const defaultMaxDiagnostics = 100

// Result is the outcome of compiling one taxonomy file. Artifact is
// nil when Err is set; Bag независимо несёт и ошибку, и предупреждения.
type Result struct {
	Path     string
	FileSet  *source.FileSet
	FileID   source.FileID
	Artifact *emit.Artifact
	Bag      *diag.Bag
	Timing   observ.Report

	// FromCache is true when the artifact was restored from the disk
	// cache instead of being compiled.
	FromCache bool

	// Err is the first fatal diagnostic wrapped as *diag.Error, or an
	// I/O error when the file could not be read.
	Err error
}

// Compile loads path into a fresh FileSet and runs the pipeline.
func Compile(path string, opts Options) Result {
	fs := source.NewFileSet()

	timer := observ.NewTimer()
	load := timer.Begin("load")
	id, err := fs.Load(path)
	if err != nil {
		timer.End(load, "")
		bag := diag.NewBag(maxDiagnostics(opts))
		ioErr := &diag.Error{Diag: diag.NewError(diag.IOLoadFileError,
			source.Span{}, fmt.Sprintf("failed to load %s: %v", path, err))}
		bag.Add(ioErr.Diag)
		return Result{Path: path, FileSet: fs, Bag: bag, Timing: timer.Report(), Err: ioErr}
	}
	timer.End(load, path)

	res := compileLoaded(fs, id, opts, timer)
	res.Path = path
	return res
}

// CompileVirtual компилирует таксономию из памяти (тесты, stdin).
func CompileVirtual(name string, src []byte, opts Options) Result {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	res := compileLoaded(fs, id, opts, observ.NewTimer())
	res.Path = name
	return res
}

// compileLoaded runs parse → emit over an already loaded file. timer
// может уже содержать фазу load; остальные фазы дописываются здесь.
func compileLoaded(fs *source.FileSet, id source.FileID, opts Options, timer *observ.Timer) Result {
	res := Result{
		FileSet: fs,
		FileID:  id,
		Bag:     diag.NewBag(maxDiagnostics(opts)),
	}
	rep := diag.BagReporter{Bag: res.Bag}
	file := fs.Get(id)

	if opts.Cache != nil {
		lookup := timer.Begin("cache")
		art, hit, err := opts.Cache.Get(Digest(file.Hash))
		timer.End(lookup, cacheNote(hit))
		if err != nil {
			// Повреждённый кеш не фатален: компилируем заново.
			rep.Report(diag.IOCacheError, diag.SevWarning, source.Span{},
				fmt.Sprintf("artifact cache unreadable: %v", err), nil)
		} else if hit {
			res.Artifact = art
			res.FromCache = true
			res.Timing = timer.Report()
			return res
		}
	}

	parse := timer.Begin("parse")
	tax, err := parser.ParseFile(file, parser.Options{Reporter: rep})
	if err != nil {
		timer.End(parse, "")
		res.Timing = timer.Report()
		res.Err = err
		return res
	}
	timer.End(parse, fmt.Sprintf("%d top-level nodes", len(tax.Roots)))

	emitPhase := timer.Begin("emit")
	art, err := emit.Emit(tax, rep)
	if err != nil {
		timer.End(emitPhase, "")
		res.Timing = timer.Report()
		res.Err = err
		return res
	}
	timer.End(emitPhase, fmt.Sprintf("%d variants", len(art.Descriptors)))
	res.Artifact = art

	if opts.Cache != nil {
		store := timer.Begin("cache-put")
		err := opts.Cache.Put(Digest(file.Hash), art)
		timer.End(store, "")
		if err != nil {
			rep.Report(diag.IOCacheError, diag.SevWarning, source.Span{},
				fmt.Sprintf("failed to store artifact in cache: %v", err), nil)
		}
	}

	res.Timing = timer.Report()
	return res
}

func maxDiagnostics(opts Options) int {
	if opts.MaxDiagnostics > 0 {
		return opts.MaxDiagnostics
	}
	return defaultMaxDiagnostics
}

func cacheNote(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
