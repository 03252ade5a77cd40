package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/reqx/packages/core/config"
	"github.com/abdul-hamid-achik/reqx/packages/decode"
	"github.com/abdul-hamid-achik/reqx/packages/executor"
	"github.com/abdul-hamid-achik/reqx/packages/output"
	"github.com/abdul-hamid-achik/reqx/packages/reqfile"
	"github.com/abdul-hamid-achik/reqx/packages/session"
)

var callCmd = &cobra.Command{
	Use:   "call <file>",
	Short: "Execute the request described in a request file",
	Long: `Execute one HTTP request described in a YAML request file.

Examples:
  reqx call user.yaml
  reqx call user.yaml --query data.user
  reqx call user.yaml --schema user.schema.json
  reqx call feed.yaml --decoder xml
  reqx call user.yaml --watch
  reqx call user.yaml --stats --rate 5`,
	Args: cobra.ExactArgs(1),
	RunE: callCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	configFlag     string
	timeoutFlag    string
	insecureFlag   bool
	proxyFlag      string
	noRedirectFlag bool
	rateFlag       float64
	headerFlags    []string
	requestIDFlag  bool
	decoderFlag    string
	queryFlag      string
	schemaFlag     string
	verboseFlag    bool
	noColorFlag    bool
	watchFlag      bool
	statsFlag      bool
)

func init() {
	callCmd.Flags().StringVar(&configFlag, "config", getEnvString("REQX_CONFIG", ""), "Path to config file (env: REQX_CONFIG)")
	callCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("REQX_TIMEOUT", ""), "Request timeout (e.g., 30s, 1m) (env: REQX_TIMEOUT)")
	callCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", false, "Disable SSL certificate validation")
	callCmd.Flags().StringVar(&proxyFlag, "proxy", getEnvString("REQX_PROXY", ""), "Proxy URL for HTTP requests (env: REQX_PROXY)")
	callCmd.Flags().BoolVar(&noRedirectFlag, "no-redirect", false, "Do not follow redirects")
	callCmd.Flags().Float64Var(&rateFlag, "rate", 0, "Client-side rate limit in requests per second")
	callCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, "Extra header (\"Key: Value\"), repeatable")
	callCmd.Flags().BoolVar(&requestIDFlag, "request-id", false, "Stamp requests with an X-Request-Id UUID")
	callCmd.Flags().StringVar(&decoderFlag, "decoder", "json", "Body decoder: json, yaml, xml")
	callCmd.Flags().StringVarP(&queryFlag, "query", "q", "", "Decode only this gjson path of the body")
	callCmd.Flags().StringVar(&schemaFlag, "schema", "", "Validate the body against this JSON Schema file")
	callCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output (response headers on failure)")
	callCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("REQX_NO_COLOR", false), "Disable colored output (env: REQX_NO_COLOR)")
	callCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the request file and re-run on change")
	callCmd.Flags().BoolVar(&statsFlag, "stats", false, "Print a latency summary after the call")
}

func callCommand(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "config: %v\n", err)
		os.Exit(ExitConfigError)
	}

	formatter := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithVerbose(verboseFlag),
		output.WithNoColor(noColorFlag || cfg.GetNoColor()),
	)

	recorder := session.NewLatencyRecorder()
	client, err := buildClient(cfg, recorder)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
		os.Exit(ExitConfigError)
	}

	decoder, err := buildDecoder()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
		os.Exit(ExitUsageError)
	}

	ex := executor.New(client, decoder)

	runOnce := func() int {
		req, err := reqfile.Load(path)
		if err != nil {
			formatter.FormatError(err)
			return ExitUsageError
		}

		start := time.Now()
		value, err := executor.ExecuteSync[any](cmd.Context(), ex, req)
		formatter.FormatResult(&output.CallResult{
			Request:  req,
			Value:    value,
			Err:      err,
			Duration: time.Since(start),
		})

		if statsFlag {
			formatter.FormatStats(recorder.Snapshot())
		}

		return exitCodeFor(err)
	}

	code := runOnce()

	if !watchFlag {
		if code != ExitSuccess {
			os.Exit(code)
		}
		return nil
	}

	return watchAndRerun(cmd, path, runOnce)
}

func watchAndRerun(cmd *cobra.Command, path string, runOnce func() int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Clean(event.Name) != target {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\n\n", event.Name)
				runOnce()
				fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		}
	}
}

func buildClient(cfg *config.Config, recorder *session.LatencyRecorder) (*session.Client, error) {
	opts := []session.ClientOption{
		session.WithRecorder(recorder),
		session.WithMaxRedirects(cfg.MaxRedirects),
	}

	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeoutFlag != "" {
		d, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", timeoutFlag, err)
		}
		timeout = d
	}
	if timeout > 0 {
		opts = append(opts, session.WithTimeout(timeout))
	}

	if insecureFlag || !cfg.GetValidateSSL() {
		opts = append(opts, session.WithValidateSSL(false))
	}
	if noRedirectFlag || !cfg.GetFollowRedirects() {
		opts = append(opts, session.WithFollowRedirects(false))
	}

	proxy := cfg.Proxy
	if proxyFlag != "" {
		proxy = proxyFlag
	}
	if proxy != "" {
		opts = append(opts, session.WithProxy(proxy))
	}

	rps := cfg.RateLimit
	if rateFlag > 0 {
		rps = rateFlag
	}
	if rps > 0 {
		opts = append(opts, session.WithRateLimit(rps))
	}

	if requestIDFlag || cfg.GetRequestID() {
		opts = append(opts, session.WithRequestID(true))
	}

	if len(cfg.Headers) > 0 {
		opts = append(opts, session.WithDefaultHeaders(cfg.Headers))
	}
	for _, h := range headerFlags {
		key, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q, want \"Key: Value\"", h)
		}
		opts = append(opts, session.WithDefaultHeader(strings.TrimSpace(key), strings.TrimSpace(value)))
	}

	return session.NewClient(opts...), nil
}

func buildDecoder() (executor.Decoder, error) {
	var base decode.Decoder
	switch strings.ToLower(decoderFlag) {
	case "", "json":
		base = decode.JSON{}
	case "yaml":
		base = decode.YAML{}
	case "xml":
		base = decode.XML{}
	default:
		return nil, fmt.Errorf("unknown decoder %q, want json, yaml, or xml", decoderFlag)
	}

	if queryFlag != "" {
		base = decode.NewPath(queryFlag, base)
	}

	// Schema goes outermost so it sees the raw body before extraction.
	if schemaFlag != "" {
		schemaJSON, err := os.ReadFile(schemaFlag)
		if err != nil {
			return nil, fmt.Errorf("read schema: %w", err)
		}
		base = decode.NewSchema(string(schemaJSON), base)
	}

	return base, nil
}

func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var invalid *executor.InvalidResponseError
	var decoding *executor.DecodingError

	switch {
	case errors.As(err, &invalid):
		return ExitInvalidResponse
	case errors.As(err, &decoding):
		return ExitDecodingError
	default:
		return ExitNetworkError
	}
}

func getEnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}
