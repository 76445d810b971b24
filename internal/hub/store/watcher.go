package store

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchedFiles are the reference tables operators edit out of band. Tables
// the hub itself writes are not reloaded to avoid churning on our own
// flushes.
var watchedFiles = map[string]struct{}{
	fileDefects: {},
	fileRCA:     {},
	fileCenters: {},
}

// Watch reloads the reference tables when their files change on disk.
// Blocks until ctx is done. Events are debounced because editors fire
// several per save.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(s.dir); err != nil {
		return err
	}
	s.log.Info("watching data directory", "dir", s.dir)

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if _, ok := watchedFiles[filepath.Base(ev.Name)]; !ok {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(300 * time.Millisecond)
			} else {
				timer.Reset(300 * time.Millisecond)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			if err := s.reload(); err != nil {
				s.log.Error(err, "reload after data change failed")
				continue
			}
			s.log.Info("data directory reloaded")
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Error(err, "data directory watcher error")
		}
	}
}
