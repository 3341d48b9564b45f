package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/automata/pkg/domain"
	"golang.org/x/term"
)

// TextHandler prints each outcome as
//
//	Processing sentence <xy>
//	δ(q1, x) → q2
//	δ(q2, y) → q1
//	Reject
//
// and shows a "> " prompt only when reading from a terminal.
type TextHandler struct {
	Reader *bufio.Reader
	Writer io.Writer

	// Prompt enables the "> " prompt. Defaults to true on terminals.
	Prompt bool
	// Trace prints every transition. Defaults to true.
	Trace bool
	// FormatVerdict styles the verdict line, e.g. with terminal colours.
	FormatVerdict func(domain.Verdict) string
	// FormatError styles the error line.
	FormatError func(string) string

	inputChan chan inputResult
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	closeOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithPrompt forces the prompt on or off.
func WithPrompt(enabled bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = enabled
	}
}

// WithTrace toggles the per-transition lines.
func WithTrace(enabled bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.Trace = enabled
	}
}

// WithVerdictFormatter configures how the verdict line is styled.
func WithVerdictFormatter(f func(domain.Verdict) string) TextHandlerOption {
	return func(h *TextHandler) {
		h.FormatVerdict = f
	}
}

// WithErrorFormatter configures how the error line is styled.
func WithErrorFormatter(f func(string) string) TextHandlerOption {
	return func(h *TextHandler) {
		h.FormatError = f
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Prompt: isTerminal(r),
		Trace:  true,
		FormatVerdict: func(v domain.Verdict) string {
			return v.String()
		},
		FormatError: func(s string) string { return s },
	}

	for _, opt := range opts {
		opt(h)
	}
	return h
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		h.stopped()
		go h.pump()
	})
}

func (h *TextHandler) stopped() chan struct{} {
	h.stopOnce.Do(func() {
		h.done = make(chan struct{})
	})
	return h.done
}

// Close stops the background reader. A read already blocked on the
// underlying reader finishes, but its line is dropped and the pump exits.
// Input returns io.EOF afterwards.
func (h *TextHandler) Close() error {
	done := h.stopped()
	h.closeOnce.Do(func() { close(done) })
	return nil
}

// pump reads lines in the background so Input can honour cancellation.
func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')

		// A final line without terminator is still a sentence.
		if text != "" && !h.send(inputResult{text: text}) {
			return
		}

		if err != nil {
			if err != io.EOF {
				h.send(inputResult{err: err})
			}
			return
		}
	}
}

func (h *TextHandler) send(res inputResult) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.inputChan <- res:
		return true
	case <-h.done:
		return false
	}
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	if h.Prompt {
		fmt.Fprint(h.Writer, "> ")
	}

	select {
	case <-ctx.Done():
		h.Close()
		return "", ctx.Err()
	case res, ok := <-h.inputChan:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimRight(res.text, "\r\n"), nil
	}
}

func (h *TextHandler) Output(ctx context.Context, report Report) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Processing sentence <%s>\n", report.Sentence)

	if h.Trace && report.Result != nil {
		for _, step := range report.Result.Trace {
			sb.WriteString(formatStep(step))
			sb.WriteString("\n")
		}
	}

	if report.Err != nil {
		sb.WriteString(h.FormatError(fmt.Sprintf("Error processing sentence: %v", report.Err)))
	} else {
		sb.WriteString(h.FormatVerdict(report.Result.Verdict))
	}
	sb.WriteString("\n")

	_, err := io.WriteString(h.Writer, sb.String())
	return err
}

// formatStep appends the stack, top last, to stack-automaton steps.
func formatStep(step domain.Step) string {
	s := step.String()
	if step.Pivot {
		s += " (pivot)"
	}
	if step.Stack != nil {
		s += fmt.Sprintf(", stack: [%s]", string(step.Stack))
	}
	return s
}
