// Package mover relocates single files into destination folders and back.
package mover

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"keysort/internal/errors"
	"keysort/internal/history"
	"keysort/internal/log"
)

const (
	maxCollisionSuffix = 10000
	maxPlaceAttempts   = 3
)

// Verification modes for cross-volume copies.
const (
	VerifyHash = "hash"
	VerifySize = "size"
)

// Result describes a completed move.
type Result struct {
	SourcePath  string `json:"source_path"`
	FinalPath   string `json:"final_path"`
	Renamed     bool   `json:"renamed"`      // a collision suffix was added
	CrossDevice bool   `json:"cross_device"` // copied, verified and deleted
}

// Mover relocates files. It keeps no state between calls besides its
// settings.
type Mover struct {
	mu     sync.Mutex // serializes collision checks with the rename that follows
	verify string
	rename func(oldpath, newpath string) error
}

// Option configures a Mover.
type Option func(*Mover)

// WithVerify selects how cross-volume copies are checked before the original
// is deleted: VerifyHash compares SHA-256 digests, VerifySize compares size
// and modification time.
func WithVerify(mode string) Option {
	return func(m *Mover) {
		m.verify = mode
	}
}

// WithRenameFunc replaces NoClobberRename.
func WithRenameFunc(fn func(oldpath, newpath string) error) Option {
	return func(m *Mover) {
		m.rename = fn
	}
}

// New creates a Mover that verifies cross-volume copies by hash.
func New(opts ...Option) *Mover {
	m := &Mover{
		verify: VerifyHash,
		rename: NoClobberRename,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Move relocates src into destDir keeping its name, or the first free
// "name_(N).ext" when the name is taken.
func (m *Mover) Move(src, destDir string) (Result, error) {
	src = filepath.Clean(src)
	destDir = filepath.Clean(destDir)

	if err := checkSource(src); err != nil {
		return Result{}, err
	}
	if err := checkDir(destDir); err != nil {
		return Result{}, err
	}
	if filepath.Dir(src) == destDir {
		return Result{}, errors.NewFileError("destination is the folder the file is already in", destDir, errors.InvalidDestination, nil)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		final       string
		renamed     bool
		crossDevice bool
		err         error
	)
	// a file may claim the free name between the check and the rename
	for attempt := 1; ; attempt++ {
		final, renamed, err = uniqueDestName(filepath.Join(destDir, filepath.Base(src)))
		if err != nil {
			return Result{}, err
		}
		crossDevice, err = m.relocate(src, final)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) || attempt == maxPlaceAttempts {
			return Result{}, err
		}
		log.LogWithFields(log.F("path", final)).Debug("Destination name taken during move, retrying")
	}

	log.LogWithFields(
		log.F("from", src),
		log.F("to", final),
		log.F("renamed", renamed),
		log.F("cross_device", crossDevice),
	).Info("Moved file")

	return Result{SourcePath: src, FinalPath: final, Renamed: renamed, CrossDevice: crossDevice}, nil
}

// Reverse moves rec.FinalPath back to rec.OriginalPath. It never
// overwrites: an existing file at the original path is an UndoConflict.
func (m *Mover) Reverse(rec history.MoveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Lstat(rec.OriginalPath); err == nil {
		return errors.NewFileError("a file already exists at the original location", rec.OriginalPath, errors.UndoConflict, nil)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return errors.NewFileError("cannot inspect original location", rec.OriginalPath, errors.UndoConflict, err)
	}

	if err := checkSource(rec.FinalPath); err != nil {
		return err
	}
	if err := checkDir(filepath.Dir(rec.OriginalPath)); err != nil {
		return err
	}

	if _, err := m.relocate(rec.FinalPath, rec.OriginalPath); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return errors.NewFileError("a file already exists at the original location", rec.OriginalPath, errors.UndoConflict, err)
		}
		return err
	}

	log.LogWithFields(log.F("from", rec.FinalPath), log.F("to", rec.OriginalPath)).Info("Reversed move")
	return nil
}

func checkSource(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.NewFileError("source file is missing", path, errors.SourceMissing, err)
		}
		return errors.NewFileError("cannot access source file", path, errors.SourceMissing, err)
	}
	if !info.Mode().IsRegular() {
		return errors.NewFileError("source is not a regular file", path, errors.SourceMissing, nil)
	}
	return nil
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.NewFileError("destination folder is unavailable", dir, errors.DestinationUnwritable, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("destination is not a folder", dir, errors.DestinationUnwritable, nil)
	}
	return nil
}

// uniqueDestName returns path if free, otherwise the first free
// "base_(N).ext".
func uniqueDestName(path string) (string, bool, error) {
	if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
		return path, false, nil
	} else if err != nil {
		return "", false, errors.NewFileError("cannot inspect destination", path, errors.DestinationUnwritable, err)
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for counter := 1; counter <= maxCollisionSuffix; counter++ {
		candidate := fmt.Sprintf("%s_(%d)%s", base, counter, ext)
		if _, err := os.Lstat(candidate); errors.Is(err, fs.ErrNotExist) {
			return candidate, true, nil
		}
	}
	return "", false, errors.NewFileError(fmt.Sprintf("no free name after %d attempts", maxCollisionSuffix), path, errors.DestinationUnwritable, nil)
}

// relocate renames src to dst, falling back to copy+verify+delete when they
// live on different volumes.
func (m *Mover) relocate(src, dst string) (bool, error) {
	err := m.rename(src, dst)
	if err == nil {
		return false, nil
	}
	if isCrossDevice(err) {
		log.LogWithFields(log.F("from", src), log.F("to", dst)).Debug("Cross-volume move, copying")
		return true, m.copyVerifyDelete(src, dst)
	}
	if errors.Is(err, fs.ErrExist) {
		return false, errors.NewFileError("destination name is taken", dst, errors.DestinationUnwritable, err)
	}
	if _, statErr := os.Lstat(src); errors.Is(statErr, fs.ErrNotExist) {
		return false, errors.NewFileError("source file is missing", src, errors.SourceMissing, err)
	}
	return false, errors.NewFileError("cannot write to destination", filepath.Dir(dst), errors.DestinationUnwritable, err)
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

// NoClobberRename moves oldpath to newpath but, unlike os.Rename, fails with
// an error matching fs.ErrExist instead of replacing a file at newpath. It
// hard-links the new name and then drops the old one; filesystems without
// hard links get a checked os.Rename.
func NoClobberRename(oldpath, newpath string) error {
	err := os.Link(oldpath, newpath)
	if err == nil {
		if rmErr := os.Remove(oldpath); rmErr != nil {
			os.Remove(newpath)
			return rmErr
		}
		return nil
	}
	if isCrossDevice(err) || errors.Is(err, fs.ErrExist) || errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if _, statErr := os.Lstat(newpath); statErr == nil {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrExist}
	}
	return os.Rename(oldpath, newpath)
}

// copyVerifyDelete copies src next to dst under a temporary name, checks the
// copy, renames it into place and only then removes src. On failure src is
// left untouched and nothing remains at dst.
func (m *Mover) copyVerifyDelete(src, dst string) (err error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return errors.NewFileError("source file is missing", src, errors.SourceMissing, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".keysort-*.tmp")
	if err != nil {
		return errors.NewFileError("cannot write to destination", filepath.Dir(dst), errors.DestinationUnwritable, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if err = copyInto(tmp, src); err != nil {
		tmp.Close()
		return errors.NewFileError("copy failed", dst, errors.DestinationUnwritable, err)
	}
	if err = tmp.Close(); err != nil {
		return errors.NewFileError("copy failed", dst, errors.DestinationUnwritable, err)
	}
	if err = os.Chmod(tmpPath, srcInfo.Mode().Perm()); err != nil {
		return errors.NewFileError("copy failed", dst, errors.DestinationUnwritable, err)
	}
	if err = os.Chtimes(tmpPath, time.Now(), srcInfo.ModTime()); err != nil {
		return errors.NewFileError("copy failed", dst, errors.DestinationUnwritable, err)
	}

	if err = m.verifyCopy(src, tmpPath); err != nil {
		return err
	}

	if err = m.rename(tmpPath, dst); err != nil {
		return errors.NewFileError("cannot place copy", dst, errors.DestinationUnwritable, err)
	}

	if rmErr := os.Remove(src); rmErr != nil {
		// Keep exactly one copy: the original stays, the new one goes.
		if undoErr := os.Remove(dst); undoErr != nil {
			log.LogWithError(undoErr).With(log.F("path", dst)).Error("Could not remove copy after failed delete")
		}
		err = errors.NewFileError("cannot remove original after copy", src, errors.Unknown, rmErr)
		return err
	}
	return nil
}

func copyInto(dst *os.File, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if _, err := io.Copy(dst, in); err != nil {
		return err
	}
	return dst.Sync()
}

func (m *Mover) verifyCopy(src, cp string) error {
	switch m.verify {
	case VerifySize:
		a, err := os.Stat(src)
		if err != nil {
			return errors.NewFileError("source file is missing", src, errors.SourceMissing, err)
		}
		b, err := os.Stat(cp)
		if err != nil {
			return errors.NewFileError("copy vanished", cp, errors.DestinationUnwritable, err)
		}
		if a.Size() != b.Size() || !a.ModTime().Equal(b.ModTime()) {
			return errors.NewFileError("copy does not match original size and time", cp, errors.DestinationUnwritable, nil)
		}
		return nil
	default:
		a, err := fileDigest(src)
		if err != nil {
			return errors.NewFileError("cannot read source for verification", src, errors.SourceMissing, err)
		}
		b, err := fileDigest(cp)
		if err != nil {
			return errors.NewFileError("cannot read copy for verification", cp, errors.DestinationUnwritable, err)
		}
		if !bytes.Equal(a, b) {
			return errors.NewFileError("copy does not match original", cp, errors.DestinationUnwritable, nil)
		}
		return nil
	}
}

func fileDigest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
