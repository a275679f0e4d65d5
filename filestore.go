package mclearn

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// FileStore keeps each player's memory in its own gob file in Dir.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Path returns the file that holds playerID's memory.
func (fs *FileStore) Path(playerID string) string {
	return filepath.Join(fs.Dir, "experience_"+playerID+".gob")
}

// Load implements MemoryStore.
func (fs *FileStore) Load(playerID string) (*Memory, error) {
	if err := checkPlayerID(playerID); err != nil {
		return nil, err
	}

	path := fs.Path(playerID)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoMemory, "%s", path)
		}

		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	m, err := LoadMemory(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	glog.V(1).Infof("Read %d positions from %s", len(m.Positions), path)
	return m, nil
}

// Save implements MemoryStore. The file is replaced atomically so that a
// failed save never leaves a truncated memory behind.
func (fs *FileStore) Save(m *Memory) error {
	if err := checkPlayerID(m.PlayerID); err != nil {
		return err
	}

	if err := os.MkdirAll(fs.Dir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", fs.Dir)
	}

	path := fs.Path(m.PlayerID)
	tmp, err := os.CreateTemp(fs.Dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "creating temporary file for %s", path)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := m.MarshalTo(w); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}

	if err := w.Flush(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", tmp.Name())
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "renaming %s to %s", tmp.Name(), path)
	}

	glog.V(1).Infof("Wrote %d positions to %s", len(m.Positions), path)
	return nil
}

func checkPlayerID(playerID string) error {
	if playerID == "" || strings.ContainsAny(playerID, `/\`) || playerID == "." || playerID == ".." {
		return errors.Errorf("invalid player id %q", playerID)
	}

	return nil
}
