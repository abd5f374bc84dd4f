package git

import (
	"fmt"
	"strconv"
	"strings"
)

// splitNUL splits NUL terminated output into its non-empty records.
func splitNUL(data []byte) []string {
	parts := strings.Split(string(data), "\x00")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseCommit parses output produced with commitFormat.
func parseCommit(data []byte) (Commit, error) {
	fields := strings.SplitN(string(data), "\x00", 11)
	if len(fields) != 11 {
		return Commit{}, fmt.Errorf("malformed commit record: %d fields", len(fields))
	}

	when, err := strconv.ParseInt(strings.TrimSpace(fields[9]), 10, 64)
	if err != nil {
		return Commit{}, fmt.Errorf("malformed commit time %q: %w", fields[9], err)
	}

	title, body := splitMessage(fields[10])

	return Commit{
		ID:      fields[0],
		ShortID: fields[1],
		Parents: strings.Fields(fields[2]),
		Author: Signature{
			Name:  strings.TrimSpace(fields[3]),
			Email: strings.TrimSpace(fields[4]),
			When:  fields[5],
		},
		Committer: Signature{
			Name:  strings.TrimSpace(fields[6]),
			Email: strings.TrimSpace(fields[7]),
			When:  fields[8],
		},
		Time:  when,
		Title: title,
		Body:  body,
	}, nil
}

// splitMessage separates a raw commit message into its title paragraph,
// joined onto one line, and the remaining body.
func splitMessage(msg string) (title, body string) {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.TrimLeft(msg, "\n")

	head, rest, _ := strings.Cut(msg, "\n\n")
	title = strings.Join(strings.Fields(head), " ")
	body = strings.TrimRight(strings.TrimLeft(rest, "\n"), " \t\n")
	return title, withoutTrailer(body)
}

// withoutTrailer drops the final paragraph of body when every line of it is
// a "Token: value" trailer such as Signed-off-by.
func withoutTrailer(body string) string {
	i := strings.LastIndex(body, "\n\n")
	last := strings.TrimLeft(body[i+1:], "\n")
	if last == "" {
		return body
	}
	for _, line := range strings.Split(last, "\n") {
		if !isTrailer(line) {
			return body
		}
	}
	if i < 0 {
		return ""
	}
	return strings.TrimRight(body[:i], " \t\n")
}

func isTrailer(line string) bool {
	token, value, ok := strings.Cut(line, ":")
	if !ok || token == "" || strings.TrimSpace(value) == "" {
		return false
	}
	for _, r := range token {
		if !(r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// parseStatus reads `git status --porcelain=v1 -z` output.
func parseStatus(data []byte) PendingChanges {
	var p PendingChanges
	records := splitNUL(data)
	for i := 0; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 3 {
			continue
		}
		x, y := rec[0], rec[1]
		// Renames and copies carry the source path as an extra record.
		if x == 'R' || x == 'C' {
			i++
		}
		switch {
		case x == '?' && y == '?':
			p.Worktree = true
		case x == '!':
		default:
			if x != ' ' {
				p.Index = true
			}
			if y != ' ' {
				p.Worktree = true
			}
		}
	}
	return p
}

// parseRawChanges reads `--raw -z` diff output:
//
//	:<old mode> <new mode> <old id> <new id> <status>\0<path>\0[<new path>\0]
func parseRawChanges(data []byte) ([]Change, error) {
	records := splitNUL(data)
	var changes []Change

	for i := 0; i < len(records); i++ {
		meta := records[i]
		if !strings.HasPrefix(meta, ":") {
			return nil, fmt.Errorf("malformed raw diff entry %q", meta)
		}
		fields := strings.Fields(meta[1:])
		if len(fields) != 5 || fields[4] == "" {
			return nil, fmt.Errorf("malformed raw diff entry %q", meta)
		}

		c := Change{
			OldMode: fields[0],
			NewMode: fields[1],
			OldID:   fields[2],
			NewID:   fields[3],
			Status:  ChangeStatus(fields[4][0]),
		}

		if i+1 >= len(records) {
			return nil, fmt.Errorf("raw diff entry %q has no path", meta)
		}
		i++
		c.Path = records[i]

		if c.Status == StatusRenamed || c.Status == StatusCopied {
			if i+1 >= len(records) {
				return nil, fmt.Errorf("raw diff entry %q has no destination path", meta)
			}
			i++
			c.OldPath = c.Path
			c.Path = records[i]
		}

		changes = append(changes, c)
	}

	return changes, nil
}
