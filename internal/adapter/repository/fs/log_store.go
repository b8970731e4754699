package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/V4T54L/matterlog/internal/domain"
)

const transcriptExt = ".txt"

// LogStore implements domain.LogStore over <root>/<chatroom>/<YYYY>/<MM>/<DD>.txt.
// It keeps no state besides the root; every call re-reads the directory tree.
type LogStore struct {
	root string
}

// NewLogStore creates a LogStore rooted at root. The directory need not exist yet.
func NewLogStore(root string) *LogStore {
	return &LogStore{root: root}
}

// Root returns the logs root directory.
func (s *LogStore) Root() string {
	return s.root
}

// ListChatrooms returns the sorted names of the chatroom directories.
func (s *LogStore) ListChatrooms(ctx context.Context) ([]string, error) {
	names, err := listEntries(s.root, isDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list chatrooms: %w", err)
	}
	return names, nil
}

// ChatroomExists reports whether the chatroom directory is present.
func (s *LogStore) ChatroomExists(ctx context.Context, chatroom string) (bool, error) {
	if !validSegment(chatroom) {
		return false, nil
	}
	info, err := os.Stat(filepath.Join(s.root, chatroom))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat chatroom %s: %w", chatroom, err)
	}
	return info.IsDir(), nil
}

// ListDays returns the day files of a chatroom grouped by year/month directory.
// Names are sorted lexically; the collector zero-pads them so this is calendar order.
func (s *LogStore) ListDays(ctx context.Context, chatroom string, order domain.SortOrder) ([]domain.MonthIndex, error) {
	ok, err := s.ChatroomExists(ctx, chatroom)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrChatroomNotFound, chatroom)
	}

	chatroomDir := filepath.Join(s.root, chatroom)
	years, err := listEntries(chatroomDir, isDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list years of %s: %w", chatroom, err)
	}

	var months []domain.MonthIndex
	for _, year := range years {
		yearDir := filepath.Join(chatroomDir, year)
		monthNames, err := listEntries(yearDir, isDir)
		if err != nil {
			return nil, fmt.Errorf("failed to list months of %s/%s: %w", chatroom, year, err)
		}
		for _, month := range monthNames {
			dayFiles, err := listEntries(filepath.Join(yearDir, month), isTranscript)
			if err != nil {
				return nil, fmt.Errorf("failed to list days of %s/%s/%s: %w", chatroom, year, month, err)
			}
			days := make([]string, len(dayFiles))
			for i, name := range dayFiles {
				days[i] = strings.TrimSuffix(name, transcriptExt)
			}
			months = append(months, domain.MonthIndex{Year: year, Month: month, Days: days})
		}
	}

	if order == domain.Descending {
		slices.Reverse(months)
		for _, m := range months {
			slices.Reverse(m.Days)
		}
	}
	return months, nil
}

// ResolveDayFile returns the path of the transcript for the given day.
func (s *LogStore) ResolveDayFile(ctx context.Context, chatroom, year, month, day string) (string, error) {
	for _, seg := range []string{chatroom, year, month, day} {
		if !validSegment(seg) {
			return "", fmt.Errorf("%w: %s/%s/%s/%s", domain.ErrDayNotFound, chatroom, year, month, day)
		}
	}

	path := filepath.Join(s.root, chatroom, year, month, day+transcriptExt)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.Mode().IsRegular()) {
		return "", fmt.Errorf("%w: %s/%s/%s/%s", domain.ErrDayNotFound, chatroom, year, month, day)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return path, nil
}

// AdjacentDay returns the calendar neighbour of date when it has a transcript.
func (s *LogStore) AdjacentDay(ctx context.Context, chatroom string, date domain.Date, dir domain.Direction) (*domain.Date, error) {
	if _, err := domain.NewDate(date.Year, date.Month, date.Day); err != nil {
		return nil, err
	}

	next := date.AddDays(int(dir))
	y, m, d := next.Path()
	_, err := s.ResolveDayFile(ctx, chatroom, y, m, d)
	if errors.Is(err, domain.ErrDayNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &next, nil
}

func isDir(dir string, e fs.DirEntry) bool {
	return resolveMode(dir, e).IsDir()
}

func isTranscript(dir string, e fs.DirEntry) bool {
	name := e.Name()
	return len(name) > len(transcriptExt) && strings.HasSuffix(name, transcriptExt) && resolveMode(dir, e).IsRegular()
}

// resolveMode follows symlinks so linked chatrooms and days are listed like real ones.
func resolveMode(dir string, e fs.DirEntry) fs.FileMode {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type()
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	if err != nil {
		return e.Type()
	}
	return info.Mode()
}

// listEntries returns the sorted names in dir accepted by keep.
func listEntries(dir string, keep func(string, fs.DirEntry) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if keep(dir, entry) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// validSegment rejects names that would escape their parent directory.
func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`) && !strings.ContainsRune(s, 0)
}
