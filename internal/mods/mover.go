package mods

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// Mover moves mod directories between the enabled and backup roots
type Mover struct {
	enabledRoot string
	backupRoot  string
}

// NewMover creates a mover for the given roots
func NewMover(enabledRoot, backupRoot string) *Mover {
	return &Mover{enabledRoot: enabledRoot, backupRoot: backupRoot}
}

// Enable moves a backed-up mod into the enabled root
func (mv *Mover) Enable(name string) (string, error) {
	return mv.move(name, mv.backupRoot, mv.enabledRoot)
}

// Disable moves an enabled mod into the backup root
func (mv *Mover) Disable(name string) (string, error) {
	return mv.move(name, mv.enabledRoot, mv.backupRoot)
}

func (mv *Mover) move(name, fromRoot, toRoot string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if fromRoot == "" || toRoot == "" {
		return "", fmt.Errorf("%w: mod roots not configured", ErrModsDir)
	}

	src := filepath.Join(fromRoot, name)
	dst := filepath.Join(toRoot, name)

	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrModNotFound, name)
	}
	if _, err := os.Stat(dst); err == nil {
		return "", fmt.Errorf("%w: %s", ErrModExists, dst)
	}

	if err := os.MkdirAll(toRoot, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrModsDir, err)
	}

	err = os.Rename(src, dst)
	if err == nil {
		return dst, nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return "", fmt.Errorf("failed to move mod: %w", err)
	}

	// Different filesystems: copy then remove
	if err := copyDir(src, dst); err != nil {
		_ = os.RemoveAll(dst)
		return "", fmt.Errorf("failed to copy mod: %w", err)
	}
	if err := os.RemoveAll(src); err != nil {
		return dst, fmt.Errorf("mod copied but source not removed: %w", err)
	}
	return dst, nil
}

// copyDir recursively copies a directory
func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}

	return nil
}

// copyFile copies a single file
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return err
	}
	defer func() { _ = dstFile.Close() }()

	_, err = io.Copy(dstFile, srcFile)
	return err
}
