package lang

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/klauspost/readahead"
)

// ReadChain reads a statement chain from r.
//
// Statements are separated by newlines or ";". A "#" starts a comment that
// runs to the end of its line. Blank statements are dropped, and the rest are
// joined with ";".
func ReadChain(ctx context.Context, r io.Reader) (string, error) {
	// Read ahead asynchronously so large sources are fetched while earlier
	// lines are processed.
	ra := readahead.NewReader(r)
	defer ra.Close()

	var statements []string

	scanner := bufio.NewScanner(ra)

	for scanner.Scan() {
		if err := context.Cause(ctx); err != nil {
			return "", ErrReadInput.Wrap(err)
		}

		line, _, _ := strings.Cut(scanner.Text(), string(commentLeader))

		for stmt := range strings.SplitSeq(line, statementSep) {
			if stmt = strings.TrimSpace(stmt); stmt != "" {
				statements = append(statements, stmt)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	return strings.Join(statements, statementSep), nil
}
