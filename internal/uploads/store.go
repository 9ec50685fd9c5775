package uploads

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalidFilename = errors.New("invalid filename")
	ErrNotFound        = errors.New("upload not found")

	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
)

// Store keeps uploaded files in a single flat directory.
type Store struct {
	dir     string
	allowed map[string]struct{}
}

func NewStore(dir string, allowedExtensions []string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}

	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &Store{dir: dir, allowed: allowed}, nil
}

func (s *Store) Dir() string { return s.dir }

// Allowed reports whether filename carries one of the permitted extensions.
func (s *Store) Allowed(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	_, ok := s.allowed[strings.ToLower(filename[idx+1:])]
	return ok
}

// StoredUpload is a saved upload. The handle stays positioned at the start of
// the content that was written, even if a later upload replaces the file.
type StoredUpload struct {
	Name string
	Path string
	Size int64
	file *os.File
}

func (u *StoredUpload) Read(p []byte) (int, error) { return u.file.Read(p) }

func (u *StoredUpload) Close() error { return u.file.Close() }

// Save writes r under the sanitised form of filename, replacing any previous
// upload with the same name. The caller must Close the returned upload.
func (s *Store) Save(filename string, r io.Reader) (*StoredUpload, error) {
	name := SecureFilename(filename)
	if name == "" {
		return nil, ErrInvalidFilename
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	size, err := io.Copy(tmp, r)
	if err != nil {
		discard(tmp)
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		discard(tmp)
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		discard(tmp)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	slog.Info("[UploadStore] Saved upload",
		slog.String("name", name),
		slog.Int64("bytes", size))
	return &StoredUpload{Name: name, Path: path, Size: size, file: tmp}, nil
}

// Path resolves a previously saved upload. Names that would not survive
// SecureFilename unchanged are rejected.
func (s *Store) Path(name string) (string, error) {
	if name == "" || SecureFilename(name) != name {
		return "", ErrInvalidFilename
	}

	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}

func discard(f *os.File) {
	f.Close()
	os.Remove(f.Name())
}

var windowsDeviceNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SecureFilename reduces a client supplied name to a safe flat filename:
// ASCII only, separators turned into underscores, and nothing outside
// [A-Za-z0-9_.-]. It may return "".
func SecureFilename(filename string) string {
	decomposed := norm.NFKD.String(filename)

	var b strings.Builder
	for _, r := range decomposed {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}

	name := strings.NewReplacer("/", " ", "\\", " ").Replace(b.String())
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name != "" {
		base := strings.ToUpper(strings.SplitN(name, ".", 2)[0])
		if _, ok := windowsDeviceNames[base]; ok {
			name = "_" + name
		}
	}
	return name
}
