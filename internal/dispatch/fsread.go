package dispatch

import (
	"os"
	"path/filepath"

	"github.com/ternarybob/syntari-kernel/internal/fsio"
	"github.com/ternarybob/syntari-kernel/internal/kernelerrors"
	"github.com/ternarybob/syntari-kernel/internal/pathsec"
	"github.com/ternarybob/syntari-kernel/internal/scanner"
)

// ReadFile implements read_file: a plain read that errors on
// too-large/binary dispositions instead of flagging them.
func (d *Dispatcher) ReadFile(path string) (string, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return "", err
	}
	return fsio.PlainRead(canonical)
}

// ReadFileSmart implements read_file_smart: always succeeds for an
// existing regular file, returning a disposition instead of an error
// for too-large/binary content.
func (d *Dispatcher) ReadFileSmart(path string) (*fsio.SmartReadResult, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return nil, err
	}
	return fsio.SmartRead(canonical)
}

// DirectoryMtimeResult is the payload for get_directory_mtime.
type DirectoryMtimeResult struct {
	ModifiedUnix int64 `json:"modified_unix"`
}

func (d *Dispatcher) GetDirectoryMtime(path string) (DirectoryMtimeResult, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return DirectoryMtimeResult{}, err
	}
	info, statErr := os.Stat(canonical)
	if statErr != nil {
		return DirectoryMtimeResult{}, kernelerrors.Wrap(kernelerrors.Filesystem, "PATH_NOT_FOUND", "cannot stat path", statErr).WithPath(canonical)
	}
	return DirectoryMtimeResult{ModifiedUnix: info.ModTime().Unix()}, nil
}

// FolderPermissions is the payload for check_folder_permissions.
type FolderPermissions struct {
	Readable bool `json:"readable"`
	Writable bool `json:"writable"`
}

func (d *Dispatcher) CheckFolderPermissions(path string) (FolderPermissions, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return FolderPermissions{}, err
	}
	perm := FolderPermissions{}
	if entries, err := os.ReadDir(canonical); err == nil {
		perm.Readable = true
		_ = entries
	}
	probe := filepath.Join(canonical, ".syntari-write-probe")
	if f, err := os.OpenFile(probe, os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		perm.Writable = true
		f.Close()
		os.Remove(probe)
	}
	return perm, nil
}

func (d *Dispatcher) ScanDirectoriesOnly(path string, maxDepth int, ignorePatterns []string) ([]scanner.Descriptor, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return nil, err
	}
	return scanner.ScanDirectoriesOnly(canonical, maxDepth, ignorePatterns)
}

func (d *Dispatcher) ScanFilesChunked(path string, offset, limit int, ignorePatterns []string, includeHidden bool) (*scanner.ScanFilesChunkedResult, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return nil, err
	}
	return scanner.ScanFilesChunked(canonical, offset, limit, ignorePatterns, includeHidden)
}

func (d *Dispatcher) ScanFilesStreaming(path string, chunkSize int, ignorePatterns []string, includeHidden bool) (*scanner.ScanFilesChunkedResult, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return nil, err
	}
	return scanner.ScanFilesStreaming(canonical, chunkSize, ignorePatterns, includeHidden)
}

func (d *Dispatcher) ScanEverythingClean(path string, includeHidden bool) ([]scanner.Descriptor, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return nil, err
	}
	return scanner.ScanEverythingClean(canonical, includeHidden)
}

func (d *Dispatcher) LoadFolderContents(path string, includeHidden, showHiddenFolders bool) (*scanner.SingleLevelResult, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return nil, err
	}
	_ = showHiddenFolders
	return scanner.LoadFolderContents(canonical, includeHidden)
}

func (d *Dispatcher) LoadRootItems(path string, includeHidden, showHiddenFolders bool) (*scanner.SingleLevelResult, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return nil, err
	}
	return scanner.LoadRootItems(canonical, includeHidden, showHiddenFolders)
}

// ListBackupFiles implements list_backup_files: files in dir ending
// in a common backup suffix.
func (d *Dispatcher) ListBackupFiles(dir string) ([]string, error) {
	canonical, err := pathsec.Validate(dir)
	if err != nil {
		return nil, err
	}
	entries, rerr := os.ReadDir(canonical)
	if rerr != nil {
		return nil, kernelerrors.Wrap(kernelerrors.Filesystem, "PATH_NOT_FOUND", "cannot list directory", rerr).WithPath(canonical)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		for _, suffix := range []string{".bak", ".backup", "~"} {
			if hasSuffix(name, suffix) {
				out = append(out, name)
				break
			}
		}
	}
	return out, nil
}

func hasSuffix(name, suffix string) bool {
	return len(name) >= len(suffix) && name[len(name)-len(suffix):] == suffix
}

// DebugTestCommand implements debug_test_command: a liveness probe
// that validates path through the gate and echoes it back, useful for
// the UI to confirm the kernel round trip without side effects.
func (d *Dispatcher) DebugTestCommand(path string) (string, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return "", err
	}
	return canonical, nil
}
