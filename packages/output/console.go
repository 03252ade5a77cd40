package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/reqx/packages/executor"
	"github.com/abdul-hamid-achik/reqx/packages/session"
)

// CallResult is one executed request plus its terminal outcome.
type CallResult struct {
	Request  *session.Request
	Value    any
	Err      error
	Duration time.Duration
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *CallResult) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	if result.Err != nil {
		f.FormatError(result.Err)
		return
	}

	fmt.Fprintf(f.writer, "%s %s %s %s\n",
		green("✓"),
		bold(result.Request.Method),
		result.Request.URL,
		cyan(fmt.Sprintf("(%dms)", result.Duration.Milliseconds())))

	pretty, err := json.MarshalIndent(result.Value, "", "  ")
	if err != nil {
		fmt.Fprintf(f.writer, "%v\n", result.Value)
		return
	}
	fmt.Fprintf(f.writer, "%s\n", pretty)
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	var invalid *executor.InvalidResponseError
	var decoding *executor.DecodingError
	var network *executor.NetworkError

	switch {
	case errors.As(err, &invalid):
		fmt.Fprintf(f.writer, "%s %s %s\n", red("✗"), red(fmt.Sprintf("%d", invalid.StatusCode)), invalid.Description)
		fmt.Fprintf(f.writer, "  %s\n", invalid.URL)
		if f.verbose && len(invalid.Headers) > 0 {
			keys := make([]string, 0, len(invalid.Headers))
			for k := range invalid.Headers {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(f.writer, "  %s: %s\n", yellow(k), invalid.Headers[k])
			}
		}
	case errors.As(err, &decoding):
		fmt.Fprintf(f.writer, "%s decoding failed: %v\n", red("✗"), decoding.Cause)
	case errors.As(err, &network):
		fmt.Fprintf(f.writer, "%s network failure: %v\n", red("✗"), network.Cause)
	default:
		fmt.Fprintf(f.writer, "%s %v\n", red("✗"), err)
	}
}

// FormatStats prints a latency summary recorded across calls.
func (f *ConsoleFormatter) FormatStats(snap session.LatencySnapshot) {
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Latency"))
	fmt.Fprintf(f.writer, "  count: %d\n", snap.Count)
	fmt.Fprintf(f.writer, "  min:   %s\n", snap.Min)
	fmt.Fprintf(f.writer, "  mean:  %s\n", snap.Mean)
	fmt.Fprintf(f.writer, "  p50:   %s\n", snap.P50)
	fmt.Fprintf(f.writer, "  p95:   %s\n", snap.P95)
	fmt.Fprintf(f.writer, "  p99:   %s\n", snap.P99)
	fmt.Fprintf(f.writer, "  max:   %s\n", snap.Max)
}
