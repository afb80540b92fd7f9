package main

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ChloeMayhewELT/HeapStorageMacro/config"
	"github.com/ChloeMayhewELT/HeapStorageMacro/generator"
	"github.com/ChloeMayhewELT/HeapStorageMacro/loader"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Editors tend to write a file in several steps.
const settleDelay = 200 * time.Millisecond

type eventAction int

const (
	ignoreEvent eventAction = iota
	regenPackage
	regenAll
)

func classifyEvent(ev fsnotify.Event) eventAction {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return ignoreEvent
	}
	name := filepath.Base(ev.Name)
	switch {
	case name == config.FileName:
		return regenAll
	case strings.HasSuffix(name, "_test.go"), !strings.HasSuffix(name, ".go"):
		return ignoreEvent
	}
	if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
		// Our own output.
		if src, err := os.ReadFile(ev.Name); err == nil && generator.IsGeneratedSource(src) {
			return ignoreEvent
		}
	}
	return regenPackage
}

// watch calls regen for packages whose sources or config change, once no
// further change arrived for settle. It returns when ctx is cancelled.
func watch(ctx context.Context, pkgs []loader.Resolved, settle time.Duration, regen func(context.Context, []loader.Resolved) error, logger log.FieldLogger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	byDir := map[string]loader.Resolved{}
	for _, pkg := range pkgs {
		byDir[pkg.Dir] = pkg
		if err := w.Add(pkg.Dir); err != nil {
			return err
		}
		// Shared config files further up.
		if p, ok := config.Find(pkg.Dir); ok && filepath.Dir(p) != pkg.Dir {
			if err := w.Add(filepath.Dir(p)); err != nil {
				return err
			}
		}
	}
	logger.Infof("watching %v packages", len(pkgs))

	timer := time.NewTimer(settle)
	timer.Stop()
	pending := map[string]bool{}
	all := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			switch classifyEvent(ev) {
			case ignoreEvent:
				continue
			case regenAll:
				all = true
			case regenPackage:
				if _, ok := byDir[filepath.Dir(ev.Name)]; !ok {
					continue
				}
				pending[filepath.Dir(ev.Name)] = true
			}
			logger.Debugf("%v: %v", ev.Op, ev.Name)
			timer.Reset(settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("watcher: %v", err)
		case <-timer.C:
			var todo []loader.Resolved
			if all {
				todo = pkgs
			} else {
				for dir := range pending {
					todo = append(todo, byDir[dir])
				}
				slices.SortFunc(todo, func(a, b loader.Resolved) int {
					return strings.Compare(a.PkgPath, b.PkgPath)
				})
			}
			clear(pending)
			all = false
			if err := regen(ctx, todo); err != nil {
				logger.Error(err)
			}
		}
	}
}
