package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// doWatch compiles filename, then recompiles it on every change until ctx
// is cancelled. Compilation errors are reported and watching goes on.
func doWatch(ctx context.Context, filename string, out, errOut io.Writer) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(errOut, "ralph-fp: cannot watch %s: %v\n", filename, err)
		return err
	}
	defer w.Close()

	// Editors often replace the file rather than write it, which drops a
	// watch on the file itself; watch its directory instead.
	if err := w.Add(filepath.Dir(filename)); err != nil {
		fmt.Fprintf(errOut, "ralph-fp: cannot watch %s: %v\n", filename, err)
		return err
	}
	target := filepath.Clean(filename)

	doCompile(filename, out, errOut)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Fprintf(errOut, "ralph-fp: %s changed, recompiling\n", filename)
			doCompile(filename, out, errOut)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "ralph-fp: watch error: %v\n", err)
		}
	}
}
