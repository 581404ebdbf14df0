package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
)

func ensureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return writeBytesAtomic(path, data)
}

func writeBytesAtomic(path string, data []byte) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := osWriteFile(tmp, data); err != nil {
		return err
	}
	return osRename(tmp, path)
}

var (
	osWriteFile = func(path string, data []byte) error { return os.WriteFile(path, data, 0644) }
	osRename    = func(old string, new string) error { return os.Rename(old, new) }
)
