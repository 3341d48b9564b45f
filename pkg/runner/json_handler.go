package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/automata/pkg/domain"
)

// JSONHandler implements the IOHandler interface for JSON-Lines communication.
// Each input line is a JSON string or raw text; each outcome is one object.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// jsonReport is the wire form of a Report.
type jsonReport struct {
	Input   string          `json:"input"`
	Verdict *domain.Verdict `json:"verdict,omitempty"`
	Final   int             `json:"final,omitempty"`
	Trace   []domain.Step   `json:"trace"`
	Error   string          `json:"error,omitempty"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}

	text = strings.TrimRight(text, "\r\n")

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return val, nil
	}

	// Fallback: raw text
	return text, nil
}

func (h *JSONHandler) Output(ctx context.Context, report Report) error {
	out := jsonReport{
		Input: report.Sentence,
		Trace: []domain.Step{},
	}
	if report.Result != nil {
		out.Trace = report.Result.Trace
		out.Final = report.Result.Final
	}
	if report.Err != nil {
		out.Error = report.Err.Error()
	} else if report.Result != nil {
		v := report.Result.Verdict
		out.Verdict = &v
	}
	return h.Encoder.Encode(out)
}
