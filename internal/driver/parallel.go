package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"errtax/internal/diag"
	"errtax/internal/observ"
	"errtax/internal/source"
)

// TaxonomyExt is the extension taxonomy source files carry.
const TaxonomyExt = ".etx"

// ListTaxonomyFiles возвращает отсортированный список всех *.etx файлов
// в директории (рекурсивно). Сортировка даёт детерминированный порядок
// результатов независимо от файловой системы.
func ListTaxonomyFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, TaxonomyExt) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// CompileDir компилирует все *.etx файлы директории параллельно.
//
// Файлы загружаются в общий FileSet заранее (одним потоком), дальше
// каждый файл проходит конвейер в своей горутине; results[i] пишется
// только владельцем индекса, поэтому мьютекс не нужен. Порядок results
// совпадает с отсортированным списком файлов. Ошибка возвращается
// только за инфраструктурные сбои (обход каталога, отмена контекста);
// пофайловые ошибки лежат в Result.Err и в Result.Bag.
func CompileDir(ctx context.Context, dir string, opts Options, jobs int) (*source.FileSet, []Result, error) {
	files, err := ListTaxonomyFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSet()
	fileSet.SetBaseDir(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, hadError := loadErrors[path]; hadError {
				bag := diag.NewBag(maxDiagnostics(opts))
				ioErr := &diag.Error{Diag: diag.NewError(diag.IOLoadFileError,
					source.Span{}, fmt.Sprintf("failed to load %s: %v", path, loadErr))}
				bag.Add(ioErr.Diag)
				results[i] = Result{Path: path, FileSet: fileSet, Bag: bag, Err: ioErr}
				return nil
			}

			res := compileLoaded(fileSet, fileIDs[path], opts, observ.NewTimer())
			res.Path = path
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
