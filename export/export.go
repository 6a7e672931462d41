// Package export writes a rendered view to disk as data files and chart images.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"diet-dashboard/models"
	"diet-dashboard/render"
	"diet-dashboard/storage"
	"diet-dashboard/utils"
)

// Exporter renders export files on a bounded worker pool.
type Exporter struct {
	dir         string
	concurrency int
	logger      *utils.Logger
}

// New creates an Exporter writing into dir.
func New(dir string, concurrency int, logger *utils.Logger) *Exporter {
	return &Exporter{dir: dir, concurrency: concurrency, logger: logger.With("export")}
}

type job struct {
	name  string
	write func(io.Writer) error
}

// Export writes the filtered rows (CSV and XLSX) and every chart (SVG) of
// vm. It returns the written paths in name order.
func (e *Exporter) Export(vm *models.ViewModel) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	var jobs []job
	for _, vw := range []storage.ViewWriter{storage.NewCSVWriter(), storage.NewXLSXWriter()} {
		jobs = append(jobs, job{name: vw.Filename(), write: func(w io.Writer) error { return vw.Write(w, vm.Rows) }})
	}
	for _, c := range vm.Charts {
		jobs = append(jobs, job{name: render.Filename(c), write: func(w io.Writer) error { return render.SVG(w, c) }})
	}

	pool := utils.NewWorkerPool(e.concurrency)
	var (
		mu    sync.Mutex
		paths []string
	)
	for _, j := range jobs {
		pool.Submit(func() error {
			path := filepath.Join(e.dir, j.name)
			if err := writeFile(path, j.write); err != nil {
				e.logger.Error("Failed to write %s: %v", path, err)
				return err
			}
			e.logger.Debug("Wrote %s", path)
			mu.Lock()
			paths = append(paths, path)
			mu.Unlock()
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	sort.Strings(paths)
	e.logger.Info("Exported %d files (%d rows) to %s", len(paths), vm.Rows.Len(), e.dir)
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
