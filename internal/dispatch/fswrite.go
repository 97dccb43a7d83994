package dispatch

import (
	"os"

	"github.com/ternarybob/syntari-kernel/internal/fsio"
	"github.com/ternarybob/syntari-kernel/internal/pathsec"
)

func (d *Dispatcher) SaveFile(path, content string) (struct{}, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, fsio.Save(canonical, content)
}

// WriteFile is the alias save_file/write_file share per the spec.
func (d *Dispatcher) WriteFile(path, content string) (struct{}, error) {
	return d.SaveFile(path, content)
}

func (d *Dispatcher) CreateFile(path, content string) (struct{}, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, fsio.Create(canonical, content)
}

func (d *Dispatcher) DeleteFile(path string, force bool) (struct{}, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return struct{}{}, err
	}
	isDir := false
	if info, statErr := os.Stat(canonical); statErr == nil {
		isDir = info.IsDir()
	}
	if err := fsio.Delete(canonical, force); err != nil {
		return struct{}{}, err
	}
	d.Watcher.EmitDeleted(canonical, isDir)
	return struct{}{}, nil
}

func (d *Dispatcher) CopyFile(src, dst string) (struct{}, error) {
	srcCanonical, err := pathsec.Validate(src)
	if err != nil {
		return struct{}{}, err
	}
	dstCanonical, err := pathsec.Validate(dst)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, fsio.Copy(srcCanonical, dstCanonical)
}

func (d *Dispatcher) MoveFile(src, dst string) (struct{}, error) {
	srcCanonical, err := pathsec.Validate(src)
	if err != nil {
		return struct{}{}, err
	}
	dstCanonical, err := pathsec.Validate(dst)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, fsio.Move(srcCanonical, dstCanonical)
}

func (d *Dispatcher) CreateDirectory(path string) (struct{}, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, fsio.CreateDirectory(canonical)
}

func (d *Dispatcher) CreateDirAll(path string) (struct{}, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, fsio.CreateDirectoryAll(canonical)
}

// GetAppDataDir implements get_app_data_dir.
func (d *Dispatcher) GetAppDataDir() (string, error) {
	return fsio.AppDataDir()
}
