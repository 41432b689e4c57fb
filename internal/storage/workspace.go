/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists resume workspaces on disk: the document file
// with transactional writes and timestamped backups, plus an embedded
// SQLite index holding scene snapshot history.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"resumestudio/internal/domain"
)

const (
	DocumentFileName = "resume.json"
	BackupsDirName   = "backups"
)

// Standard subfolders scaffolded in every workspace.
var standardSubDirs = []string{
	"assets",
	"exports",
	BackupsDirName,
}

// WorkspaceHandle keeps track of the workspace state loaded/saved from
// disk. Root is the workspace directory containing resume.json and
// subfolders.
type WorkspaceHandle struct {
	Root         string
	DocumentPath string
	Document     domain.Document
}

// InitWorkspace creates a new workspace directory at root (creating it
// if it doesn't exist), scaffolds the standard subfolders, and writes
// the given document transactionally.
func InitWorkspace(root string, doc domain.Document) (*WorkspaceHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}

	ws := &WorkspaceHandle{
		Root:         root,
		DocumentPath: filepath.Join(root, DocumentFileName),
		Document:     doc,
	}
	if err := Save(ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// Open loads an existing workspace from the given root directory. If
// the current document cannot be read or parsed, the latest backup is
// tried.
func Open(root string) (*WorkspaceHandle, error) {
	dpath := filepath.Join(root, DocumentFileName)
	b, err := os.ReadFile(dpath)
	if err != nil {
		doc, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("open document: %w; backup attempt: %v", err, berr)
		}
		return &WorkspaceHandle{Root: root, DocumentPath: dpath, Document: *doc}, nil
	}
	var d domain.Document
	if uerr := json.Unmarshal(b, &d); uerr != nil {
		doc, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("parse document: %w; backup attempt: %v", uerr, berr)
		}
		return &WorkspaceHandle{Root: root, DocumentPath: dpath, Document: *doc}, nil
	}
	return &WorkspaceHandle{Root: root, DocumentPath: dpath, Document: d}, nil
}

// Save writes the current document to disk with transactional semantics
// and a timestamped backup of the previous file (if present).
func Save(ws *WorkspaceHandle) error {
	if ws == nil {
		return errors.New("nil WorkspaceHandle")
	}
	if ws.Root == "" || ws.DocumentPath == "" {
		return errors.New("invalid WorkspaceHandle: missing paths")
	}
	ws.Document.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(ws.Document, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	bdir := filepath.Join(ws.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	// Copy the current document to a timestamped backup before replacing
	if _, statErr := os.Stat(ws.DocumentPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", DocumentFileName, stamp)
		if cerr := copyFile(ws.DocumentPath, filepath.Join(bdir, bname)); cerr != nil {
			return fmt.Errorf("backup current document: %w", cerr)
		}
	}

	// Transactional write: temp file in same directory, then rename over target
	dir := filepath.Dir(ws.DocumentPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", DocumentFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp document: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(ws.DocumentPath); err == nil {
		_ = os.Remove(ws.DocumentPath)
	}
	if rerr := os.Rename(temp, ws.DocumentPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace document: %w", rerr)
	}
	return nil
}

// SaveAs writes the document to a new root folder, scaffolding structure
// if needed, and updates the handle.
func SaveAs(ws *WorkspaceHandle, newRoot string) error {
	if ws == nil {
		return errors.New("nil WorkspaceHandle")
	}
	if newRoot == "" {
		return errors.New("new root is empty")
	}
	if err := os.MkdirAll(newRoot, 0o755); err != nil {
		return fmt.Errorf("create new root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(newRoot, d), 0o755); err != nil {
			return fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	ws.Root = newRoot
	ws.DocumentPath = filepath.Join(newRoot, DocumentFileName)
	return Save(ws)
}

// AutosaveCrashSnapshot writes the in-memory document to a dedicated
// crash-autosave file under backups without touching the main document.
// Called from the panic handler, so it must not rely on Save's rename
// dance succeeding mid-crash. Returns the written path.
func AutosaveCrashSnapshot(ws *WorkspaceHandle) (string, error) {
	if ws == nil || ws.Root == "" {
		return "", errors.New("no workspace")
	}
	data, err := json.MarshalIndent(ws.Document, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	bdir := filepath.Join(ws.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("crash-autosave-%s.json", stamp))
	if err := writeFileSync(path, append(data, '\n')); err != nil {
		return "", fmt.Errorf("write crash autosave: %w", err)
	}
	return path, nil
}

// writeFileSync writes data to a file and ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromLatestBackup tries to open the latest timestamped backup.
func openFromLatestBackup(root string) (*domain.Document, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, DocumentFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	b, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	var d domain.Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return &d, nil
}
