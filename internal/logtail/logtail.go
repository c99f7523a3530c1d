package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Read returns the last maxLines lines of the file at path, oldest first.
// maxLines <= 0 returns every line. A missing file reads as empty.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if maxLines <= 0 {
		var all []string
		for scanner.Scan() {
			all = append(all, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return all, nil
	}

	ring := make([]string, maxLines)
	next, total := 0, 0
	for scanner.Scan() {
		ring[next] = scanner.Text()
		next = (next + 1) % maxLines
		total++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if total < maxLines {
		return ring[:total:total], nil
	}
	return append(ring[next:], ring[:next]...), nil
}

// Entry is one parsed logfmt line.
type Entry struct {
	Time    string
	Level   string
	Prefix  string
	Message string
	// Fields holds the remaining key/value pairs in line order.
	Fields [][2]string
	// Raw is the unparsed line.
	Raw string
}

// Parse splits a logfmt line as written by the shell's logger. Lines that are
// not logfmt come back with only Message and Raw set.
func Parse(line string) Entry {
	e := Entry{Raw: line}
	pairs, ok := splitLogfmt(line)
	if !ok {
		e.Message = strings.TrimSpace(line)
		return e
	}
	for _, kv := range pairs {
		switch kv[0] {
		case "time", "ts":
			e.Time = kv[1]
		case "level", "lvl":
			e.Level = strings.ToLower(kv[1])
		case "prefix":
			e.Prefix = kv[1]
		case "msg":
			e.Message = kv[1]
		default:
			e.Fields = append(e.Fields, kv)
		}
	}
	return e
}

// splitLogfmt tokenizes key=value pairs. Values may be double quoted.
func splitLogfmt(line string) ([][2]string, bool) {
	var pairs [][2]string
	rest := strings.TrimSpace(line)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 || strings.ContainsAny(rest[:eq], " \t\"") {
			return nil, false
		}
		key := rest[:eq]
		rest = rest[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			quoted, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return nil, false
			}
			value, _ = strconv.Unquote(quoted)
			rest = rest[len(quoted):]
		} else if sp := strings.IndexByte(rest, ' '); sp >= 0 {
			value, rest = rest[:sp], rest[sp:]
		} else {
			value, rest = rest, ""
		}
		pairs = append(pairs, [2]string{key, value})
		rest = strings.TrimLeft(rest, " \t")
	}
	return pairs, len(pairs) > 0
}
