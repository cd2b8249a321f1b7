// Copyright 2020 Lingfei Kong <colin404@foxmail.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package snapshot

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/marmotedu/errors"
	"github.com/marmotedu/log"
	"golang.org/x/sys/unix"

	"github.com/marmotedu/authmap/internal/pkg/code"
)

// Settings captures ambient process state the publisher depends on. It is
// read once at startup and threaded in explicitly, never queried ad hoc.
type Settings struct {
	// Umask is the file-creation mask active when the process started.
	Umask int
}

// CurrentSettings reads the process file-creation mask. Umask can only be
// read by writing it, so it is set to zero and immediately restored.
func CurrentSettings() Settings {
	mask := unix.Umask(0)
	unix.Umask(mask)

	return Settings{Umask: mask}
}

// Publisher writes snapshot content to a target path. The target is only
// ever mutated by renaming a fully written temporary file over it, and
// only when the content actually changed.
type Publisher struct {
	path    string
	mode    os.FileMode
	verbose bool
}

// NewPublisher creates a publisher for the given target path. The
// published file gets the platform default permissions narrowed by the
// captured file-creation mask.
func NewPublisher(path string, settings Settings, verbose bool) *Publisher {
	return &Publisher{
		path:    path,
		mode:    os.FileMode(0o666 &^ settings.Umask),
		verbose: verbose,
	}
}

// Publish writes content to the target path unless it already matches. A
// missing or unreadable target counts as empty content, not as an error.
// The temporary file lives in the target's directory so the final rename
// is an atomic same-filesystem operation.
func (p *Publisher) Publish(content []byte) error {
	current, err := os.ReadFile(p.path)
	if err != nil {
		current = nil
	}

	if bytes.Equal(current, content) {
		if p.verbose {
			log.Infof("%s is up-to-date", p.path)
		}

		return nil
	}

	if p.verbose {
		log.Infof("updating contents of %s", p.path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), filepath.Base(p.path)+".*")
	if err != nil {
		return errors.WithCode(code.ErrSnapshotPublish, "create temporary file: %s", err.Error())
	}

	if err := p.fill(tmp, content); err != nil {
		_ = os.Remove(tmp.Name())

		return err
	}

	if err := os.Rename(tmp.Name(), p.path); err != nil {
		_ = os.Remove(tmp.Name())

		return errors.WithCode(code.ErrSnapshotPublish, "rename over %s: %s", p.path, err.Error())
	}

	return nil
}

func (p *Publisher) fill(tmp *os.File, content []byte) error {
	defer tmp.Close()

	if _, err := tmp.Write(content); err != nil {
		return errors.WithCode(code.ErrSnapshotPublish, "write temporary file: %s", err.Error())
	}

	// CreateTemp opens the file 0600, the published snapshot must be
	// world-readable modulo the mask.
	if err := tmp.Chmod(p.mode); err != nil {
		return errors.WithCode(code.ErrSnapshotPublish, "chmod temporary file: %s", err.Error())
	}

	if err := tmp.Close(); err != nil {
		return errors.WithCode(code.ErrSnapshotPublish, "close temporary file: %s", err.Error())
	}

	return nil
}
