// Package fsio implements the size-guarded, binary-aware file I/O
// engine: smart/plain reads, saves, creates, deletes, copy/move, and
// directory creation. It generalizes the teacher's thin fileutil
// wrappers into the kernel's guarded contract.
package fsio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/ternarybob/syntari-kernel/internal/kernelerrors"
)

const (
	// TooLargeThreshold is the size above which smart reads refuse to
	// load content at all.
	TooLargeThreshold int64 = 256 * 1024 * 1024
	// HexModeThreshold is the size above which smart reads recommend
	// hex-mode viewing instead of text decoding.
	HexModeThreshold int64 = 64 * 1024 * 1024
	// WarnThreshold is the size above which a smart read attaches a
	// human-readable warning even though content is returned.
	WarnThreshold int64 = 1 * 1024 * 1024

	sniffWindow = 8 * 1024
)

// SmartReadResult is the outcome of a size-guarded, binary-aware read.
type SmartReadResult struct {
	Content          string
	HasContent       bool
	Size             int64
	IsBinary         bool
	IsTooLarge       bool
	ShouldUseHexMode bool
	Warning          string
}

// SmartRead stats path first and decides a disposition before ever
// reading the full file. Exactly one of {content present, IsBinary,
// IsTooLarge, ShouldUseHexMode} is the dominant disposition.
func SmartRead(path string) (*SmartReadResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, statError(path, err)
	}
	if info.IsDir() {
		return nil, kernelerrors.New(kernelerrors.Filesystem, "NOT_A_FILE", "path is a directory").WithPath(path)
	}

	size := info.Size()
	if size > TooLargeThreshold {
		return &SmartReadResult{Size: size, IsTooLarge: true}, nil
	}
	if size > HexModeThreshold {
		return &SmartReadResult{Size: size, ShouldUseHexMode: true}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, kernelerrors.Wrap(kernelerrors.Filesystem, "FILE_NOT_FOUND", "cannot open file", err).WithPath(path)
	}
	defer f.Close()

	sniff := make([]byte, sniffWindow)
	n, _ := io.ReadFull(f, sniff)
	isBinary := bytes.IndexByte(sniff[:n], 0) >= 0

	if isBinary {
		res := &SmartReadResult{Size: size, IsBinary: true}
		if size > WarnThreshold {
			res.Warning = "large file (" + humanize.Bytes(uint64(size)) + "); consider hex mode for quicker viewing"
		}
		return res, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, kernelerrors.Wrap(kernelerrors.Filesystem, "METADATA_READ_FAILED", "cannot seek file", err).WithPath(path)
	}
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, kernelerrors.Wrap(kernelerrors.Filesystem, "FILE_NOT_FOUND", "cannot read file", err).WithPath(path)
	}

	content := string(raw)
	if !utf8.ValidString(content) {
		content = toValidUTF8Lossy(raw)
	}

	result := &SmartReadResult{Content: content, HasContent: true, Size: size}
	if size > WarnThreshold {
		result.Warning = "large file (" + humanize.Bytes(uint64(size)) + "); consider hex mode for quicker viewing"
	}
	return result, nil
}

func toValidUTF8Lossy(raw []byte) string {
	var b bytes.Buffer
	b.Grow(len(raw))
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
			raw = raw[1:]
			continue
		}
		b.WriteRune(r)
		raw = raw[size:]
	}
	return b.String()
}

// PlainRead builds on SmartRead but surfaces too-large/binary
// dispositions as errors instead of flagged successes.
func PlainRead(path string) (string, error) {
	res, err := SmartRead(path)
	if err != nil {
		return "", err
	}
	if res.IsTooLarge {
		return "", kernelerrors.New(kernelerrors.Filesystem, "FILE_TOO_LARGE", "file exceeds the size limit for a plain read").WithPath(path)
	}
	if res.ShouldUseHexMode {
		return "", kernelerrors.New(kernelerrors.Filesystem, "FILE_TOO_LARGE", "file is large enough to require hex mode").WithPath(path)
	}
	if res.IsBinary {
		return "", kernelerrors.New(kernelerrors.Filesystem, kernelerrors.CodeBinaryFile, "file is binary").WithPath(path)
	}
	return res.Content, nil
}

// Save overwrite-writes content to path in a single call.
func Save(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot save file", err).WithPath(path)
	}
	return nil
}

// Create fails if path already exists; it creates missing parent
// directories and writes content (empty if not supplied).
func Create(path string, content string) error {
	if _, err := os.Stat(path); err == nil {
		return kernelerrors.New(kernelerrors.Filesystem, "FS_ALREADY_EXISTS", "file already exists").WithPath(path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot create parent directory", err).WithPath(path)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot create file", err).WithPath(path)
	}
	return nil
}

// Delete removes path. Directories are removed only if empty unless
// force is set, in which case a recursive remove is performed.
func Delete(path string, force bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return statError(path, err)
	}
	if !info.IsDir() {
		if err := os.Remove(path); err != nil {
			return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot delete file", err).WithPath(path)
		}
		return nil
	}
	if force {
		if err := os.RemoveAll(path); err != nil {
			return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot delete directory", err).WithPath(path)
		}
		return nil
	}
	if err := os.Remove(path); err != nil {
		return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "directory not empty", err).WithPath(path)
	}
	return nil
}

// Copy copies source to target, recursing for directories. It rejects
// if target already exists.
func Copy(source, target string) error {
	if _, err := os.Stat(target); err == nil {
		return kernelerrors.New(kernelerrors.Filesystem, "FS_ALREADY_EXISTS", "copy target already exists").WithPath(target)
	}
	info, err := os.Stat(source)
	if err != nil {
		return statError(source, err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot create target parent", err).WithPath(target)
	}
	if info.IsDir() {
		return copyDir(source, target)
	}
	return copyFile(source, target, info.Mode())
}

func copyDir(source, target string) error {
	if err := os.MkdirAll(target, 0755); err != nil {
		return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot create target directory", err).WithPath(target)
	}
	entries, err := os.ReadDir(source)
	if err != nil {
		return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot read source directory", err).WithPath(source)
	}
	for _, e := range entries {
		src := filepath.Join(source, e.Name())
		dst := filepath.Join(target, e.Name())
		if e.IsDir() {
			if err := copyDir(src, dst); err != nil {
				return err
			}
			continue
		}
		info, err := e.Info()
		if err != nil {
			return kernelerrors.Wrap(kernelerrors.Filesystem, "METADATA_READ_FAILED", "cannot stat entry", err).WithPath(src)
		}
		if err := copyFile(src, dst, info.Mode()); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(source, target string, mode os.FileMode) error {
	in, err := os.Open(source)
	if err != nil {
		return kernelerrors.Wrap(kernelerrors.Filesystem, "FILE_NOT_FOUND", "cannot open source file", err).WithPath(source)
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot create target file", err).WithPath(target)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot copy file contents", err).WithPath(target)
	}
	return nil
}

// Move renames source to target. It is a single rename call; it does
// not fall back to copy-and-delete across filesystem boundaries.
func Move(source, target string) error {
	if _, err := os.Stat(target); err == nil {
		return kernelerrors.New(kernelerrors.Filesystem, "FS_ALREADY_EXISTS", "move target already exists").WithPath(target)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot create target parent", err).WithPath(target)
	}
	if err := os.Rename(source, target); err != nil {
		return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot move path", err).WithPath(target)
	}
	return nil
}

// CreateDirectory creates path, failing if it already exists.
func CreateDirectory(path string) error {
	if _, err := os.Stat(path); err == nil {
		return kernelerrors.New(kernelerrors.Filesystem, "FS_ALREADY_EXISTS", "directory already exists").WithPath(path)
	}
	if err := os.Mkdir(path, 0755); err != nil {
		return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot create directory", err).WithPath(path)
	}
	return nil
}

// CreateDirectoryAll is an idempotent mkdir -p.
func CreateDirectoryAll(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot create directory tree", err).WithPath(path)
	}
	return nil
}

// AppDataDir returns the platform-conventional per-user application
// data directory for the kernel, creating it if missing. Mirrors the
// teacher config package's DefaultDataDir resolution.
func AppDataDir() (string, error) {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			home, _ := os.UserHomeDir()
			dir = filepath.Join(home, "AppData", "Roaming")
		}
		dir = filepath.Join(dir, "syntari-kernel")
	case "darwin":
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, "Library", "Application Support", "syntari-kernel")
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			dir = filepath.Join(xdg, "syntari-kernel")
		} else {
			home, _ := os.UserHomeDir()
			dir = filepath.Join(home, ".syntari-kernel")
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot create app data directory", err).WithPath(dir)
	}
	return dir, nil
}

func statError(path string, err error) error {
	if os.IsNotExist(err) {
		return kernelerrors.Wrap(kernelerrors.Filesystem, "PATH_NOT_FOUND", "path does not exist", err).WithPath(path)
	}
	if os.IsPermission(err) {
		return kernelerrors.Wrap(kernelerrors.Permission, kernelerrors.CodePermissionDenied, "permission denied", err).WithPath(path)
	}
	return kernelerrors.Wrap(kernelerrors.Filesystem, "METADATA_READ_FAILED", "cannot stat path", err).WithPath(path)
}
