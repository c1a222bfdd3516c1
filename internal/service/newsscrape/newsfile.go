package newsscrape

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one curated line of the news file.
type Entry struct {
	Line int
	URL  string
	Type string
}

// ParseNewsFile reads `URL -> news type` lines. Blank lines, lines without an
// arrow and lines with an empty side are skipped.
func ParseNewsFile(r io.Reader) ([]Entry, error) {
	var out []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || !strings.Contains(line, "->") {
			continue
		}
		u, typ, _ := strings.Cut(line, "->")
		u, typ = strings.TrimSpace(u), strings.TrimSpace(typ)
		if u == "" || typ == "" {
			continue
		}
		out = append(out, Entry{Line: n, URL: u, Type: typ})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read news file: %w", err)
	}
	return out, nil
}

// LoadNewsFile opens and parses path.
func LoadNewsFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open news file: %w", err)
	}
	defer f.Close()
	return ParseNewsFile(f)
}
