package release

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the operator for a single line of input. Ask returns
// ctx.Err() when ctx is cancelled before an answer arrives.
type Prompter interface {
	Ask(ctx context.Context, question string) (string, error)
}

// LinePrompter reads answers line by line from a reader.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer

	// pending is a read still in flight from an abandoned Ask. Its line
	// answers the next question so reads never overlap.
	pending chan answer
}

type answer struct {
	line string
	err  error
}

// NewLinePrompter writes questions to out and reads answers from in.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Ask prints question (without a newline) and returns the trimmed answer.
// End of input is treated as a blank answer.
func (p *LinePrompter) Ask(ctx context.Context, question string) (string, error) {
	fmt.Fprint(p.out, question)

	if p.pending == nil {
		ch := make(chan answer, 1)
		go func() {
			line, err := p.in.ReadString('\n')
			ch <- answer{line: line, err: err}
		}()
		p.pending = ch
	}

	var a answer
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	case a = <-p.pending:
		p.pending = nil
	}

	if a.err != nil && !errors.Is(a.err, io.EOF) {
		return "", fmt.Errorf("read answer: %w", a.err)
	}
	if errors.Is(a.err, io.EOF) && a.line == "" {
		// Keep the terminal tidy when stdin closes on the prompt line.
		fmt.Fprintln(p.out)
	}
	return strings.TrimSpace(a.line), nil
}
