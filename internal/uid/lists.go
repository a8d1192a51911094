package uid

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"strings"
	"unicode/utf8"
)

// minLineLen is the shortest line accepted from a list file; anything at
// or below it is treated as blank.
const minLineLen = 2

// FilterExcluded returns the elements of included, in order, that do not
// appear in excluded.
func FilterExcluded(included, excluded []string) []string {
	skip := make(map[string]struct{}, len(excluded))
	for _, x := range excluded {
		skip[x] = struct{}{}
	}
	out := make([]string, 0, len(included))
	for _, x := range included {
		if _, ok := skip[x]; !ok {
			out = append(out, x)
		}
	}
	return out
}

// Intersect returns the elements common to every group, ordered as they
// appear in the first group.
func Intersect(groups [][]string) ([]string, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("intersect needs at least one group: %w", ErrInvalidArgument)
	}

	counts := make(map[string]int, len(groups[0]))
	for _, x := range groups[0] {
		counts[x] = 1
	}
	for i, g := range groups[1:] {
		for _, x := range g {
			// Only advance entries that survived every previous group;
			// repeats within the same group are counted once.
			if counts[x] == i+1 {
				counts[x] = i + 2
			}
		}
	}

	out := make([]string, 0, len(groups[0]))
	for _, x := range groups[0] {
		if counts[x] == len(groups) {
			out = append(out, x)
		}
	}
	return out, nil
}

// ListOptions controls LoadFromTextFiles.
type ListOptions struct {
	// LimitPerFile caps the entries taken from each file. Negative means
	// no limit.
	LimitPerFile int
	// Shuffle randomises each file's entries before the limit is applied.
	Shuffle bool
	// Rand is the shuffle source. When nil the process-wide source is used.
	Rand *rand.Rand
}

// DefaultListOptions takes every entry in file order.
var DefaultListOptions = ListOptions{LimitPerFile: -1}

// LoadFromTextFiles reads one identifier per line from each file and
// concatenates the results in file order. Lines are trimmed and lines of
// two characters or fewer are dropped. A missing file aborts the load
// with ErrFileNotFound.
func LoadFromTextFiles(paths []string, opts ListOptions) ([]string, error) {
	var out []string
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("list %s: %w", p, ErrFileNotFound)
			}
			return nil, fmt.Errorf("reading list %s: %w", p, err)
		}

		var current []string
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if utf8.RuneCountInString(line) > minLineLen {
				current = append(current, line)
			}
		}

		if opts.Shuffle {
			swap := func(i, j int) { current[i], current[j] = current[j], current[i] }
			if opts.Rand != nil {
				opts.Rand.Shuffle(len(current), swap)
			} else {
				rand.Shuffle(len(current), swap)
			}
		}

		if opts.LimitPerFile >= 0 && len(current) > opts.LimitPerFile {
			current = current[:opts.LimitPerFile]
		}
		out = append(out, current...)
	}
	return out, nil
}
