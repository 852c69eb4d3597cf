// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package fsutil writes files into the faucet data directory.
//
// Config files are group-accessible so several operators of one group can
// share a data directory. Keypair files stay owner-only.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirPerm is the permission mode for the data and ledger directories.
const DirPerm = os.ModeSetgid | 0770

// FilePerm is the permission mode for config files.
const FilePerm os.FileMode = 0660

// PrivatePerm is the permission mode for keypair files.
const PrivatePerm os.FileMode = 0600

// MkdirAll creates path and its parents, then sets DirPerm explicitly so
// the umask does not apply. Without ownership of path the setgid bit is
// dropped.
func MkdirAll(path string) error {
	if err := os.MkdirAll(path, 0770); err != nil {
		return err
	}
	if err := os.Chmod(path, DirPerm); err != nil {
		if os.IsPermission(err) {
			return os.Chmod(path, 0770)
		}
		return err
	}
	return nil
}

// WriteFile atomically replaces path with data using FilePerm.
func WriteFile(path string, data []byte) error {
	return writeAtomic(path, data, FilePerm)
}

// WritePrivate atomically replaces path with data using PrivatePerm.
func WritePrivate(path string, data []byte) error {
	return writeAtomic(path, data, PrivatePerm)
}

// writeAtomic writes to a temporary file in the target directory and
// renames it over path, so readers never see a partial file.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()

	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(name, path)
}
