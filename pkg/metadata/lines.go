package metadata

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// CommentDelimiter starts a comment which lasts till the end of the line.
const CommentDelimiter = ";"

// Line is a non-empty line of a metadata file with the comment stripped.
type Line struct {
	// Number is the 1-based number of the line in the original file.
	Number int
	Text   string
}

// ReadLines returns the meaningful lines: comments are stripped,
// blank lines are skipped.
func ReadLines(r io.Reader) ([]Line, error) {
	var result []Line
	scanner := bufio.NewScanner(r)
	number := 0
	for scanner.Scan() {
		number++
		text, _, _ := strings.Cut(scanner.Text(), CommentDelimiter)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		result = append(result, Line{Number: number, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read line %d: %w", number+1, err)
	}
	return result, nil
}
