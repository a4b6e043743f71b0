package generator

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a partial document.
func writeFileAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = fs.Chmod(tmpName, perm); err != nil {
		return err
	}
	return fs.Rename(tmpName, path)
}
