package emitter

import (
	"fmt"
	"os"
	"path/filepath"
)

// Output is one rendered document and its destination.
type Output struct {
	Path string
	Data []byte
}

// Outputs pairs the rendered documents with their configured paths, skipping
// the Luau module when it was not rendered.
func Outputs(docs Documents, jsonPath, luauPath string) []Output {
	out := []Output{{Path: jsonPath, Data: docs.JSON}}
	if docs.Luau != nil {
		out = append(out, Output{Path: luauPath, Data: docs.Luau})
	}
	return out
}

// rename is swapped in tests to fail a single replacement.
var rename = os.Rename

// WriteAll stages every output in a temp file beside its destination and
// renames them into place only after all of them were written. Existing
// documents are moved aside first; if any replacement fails, the ones
// already replaced are restored, so a failed run leaves the previous
// documents in place.
func WriteAll(outputs []Output) error {
	staged := make([]string, 0, len(outputs))
	for _, o := range outputs {
		tmp, err := stage(o)
		if err != nil {
			removeAll(staged)
			return err
		}
		staged = append(staged, tmp)
	}

	// backups[i] is empty when outputs[i] had no previous document.
	backups := make([]string, 0, len(outputs))
	for i, o := range outputs {
		backup, err := moveAside(o.Path)
		if err == nil {
			backups = append(backups, backup)
			err = rename(staged[i], o.Path)
			if err != nil {
				err = fmt.Errorf("replace %s: %w", o.Path, err)
			}
		}
		if err != nil {
			restore(outputs[:len(backups)], backups, i)
			removeAll(staged[i:])
			return err
		}
	}
	removeAll(backups)
	return nil
}

// moveAside renames an existing file at path to a fresh backup name and
// returns that name, or "" when there was nothing at path.
func moveAside(path string) (string, error) {
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		return "", nil
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.bak")
	if err != nil {
		return "", fmt.Errorf("back up %s: %w", path, err)
	}
	backup := f.Name()
	_ = f.Close()
	if err := rename(path, backup); err != nil {
		_ = os.Remove(backup)
		return "", fmt.Errorf("back up %s: %w", path, err)
	}
	return backup, nil
}

// restore undoes the replacements of outputs whose backups were taken.
// failed is the index whose staged file was not renamed into place.
func restore(outputs []Output, backups []string, failed int) {
	for i := len(backups) - 1; i >= 0; i-- {
		path := outputs[i].Path
		if backups[i] == "" {
			if i != failed {
				_ = os.Remove(path)
			}
			continue
		}
		_ = rename(backups[i], path)
	}
}

func removeAll(paths []string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}

func stage(o Output) (string, error) {
	dir := filepath.Dir(o.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(o.Path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", o.Path, err)
	}
	name := f.Name()

	if _, err := f.Write(o.Data); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("write %s: %w", o.Path, err)
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("chmod %s: %w", o.Path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("close %s: %w", o.Path, err)
	}
	return name, nil
}
