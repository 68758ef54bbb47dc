package history

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/san-kum/gesturenav/internal/logging"
)

const sessionFile = "session.msgpack.zst"

type session struct {
	Entries []string  `msgpack:"entries"`
	Landing *Landing  `msgpack:"landing"`
	Saved   time.Time `msgpack:"saved"`
}

// FileStore is a Stack persisted to baseDir as zstd-compressed msgpack.
// Every mutation rewrites the file; the history is tiny.
type FileStore struct {
	*Stack
	baseDir string
	landing *Landing
	lg      *logging.Logger
}

func NewFileStore(baseDir string, limit int) *FileStore {
	return &FileStore{Stack: NewStack(limit), baseDir: baseDir}
}

// WithLogger sets where Push and Pop report save failures.
func (s *FileStore) WithLogger(lg *logging.Logger) *FileStore {
	s.lg = lg
	return s
}

func (s *FileStore) Path() string { return filepath.Join(s.baseDir, sessionFile) }

// Open loads any existing session; a missing file is an empty history.
func (s *FileStore) Open() error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}
	f, err := os.Open(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	sess, err := decodeSession(f)
	if err != nil {
		return fmt.Errorf("history: %s: %w", s.Path(), err)
	}
	for _, e := range sess.Entries {
		s.Stack.Push(e)
	}
	s.landing = sess.Landing
	return nil
}

// Push and Pop always update the in-memory stack; a failed save is
// logged and retried by the next mutation.
func (s *FileStore) Push(label string) {
	s.Stack.Push(label)
	s.saveOrWarn("push", label)
}

func (s *FileStore) Pop() (string, bool) {
	l, ok := s.Stack.Pop()
	if ok {
		s.saveOrWarn("pop", l)
	}
	return l, ok
}

func (s *FileStore) saveOrWarn(op, label string) {
	if err := s.Save(); err != nil {
		s.lg.Warn("history not saved",
			slog.String("op", op), slog.String("label", label),
			slog.String("path", s.Path()), slog.Any("error", err))
	}
}

func (s *FileStore) SetLanding(l Landing) error {
	s.landing = &l
	return s.Save()
}

func (s *FileStore) LastLanding() (Landing, bool) {
	if s.landing == nil {
		return Landing{}, false
	}
	return *s.landing, true
}

func (s *FileStore) Clear() error {
	s.Stack = NewStack(s.Stack.limit)
	s.landing = nil
	err := os.Remove(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStore) Save() error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}
	tmp := s.Path() + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	sess := session{Entries: s.Entries(), Landing: s.landing, Saved: time.Now()}
	if err := encodeSession(f, sess); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func encodeSession(w io.Writer, sess session) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(zw).Encode(sess); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func decodeSession(r io.Reader) (session, error) {
	var sess session
	zr, err := zstd.NewReader(r)
	if err != nil {
		return sess, err
	}
	defer zr.Close()
	err = msgpack.NewDecoder(zr).Decode(&sess)
	return sess, err
}
