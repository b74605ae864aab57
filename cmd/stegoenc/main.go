// Command stegoenc embeds a secret payload into a discussion-thread carrier
// record: flag-configured, reads the carrier and payload from JSON files
// (or prompts for the payload without echo), writes a formatted JSON output
// record to stdout and diagnostics to stderr.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"stego/carrier"
	"stego/config"
	"stego/finder"
	"stego/pipeline"
)

func main() {
	carrierPath := flag.String("carrier", "", "Path to the carrier record JSON file")
	payloadPath := flag.String("payload", "", "Path to a JSON file holding the payload (or use -prompt)")
	prompt := flag.Bool("prompt", false, "Prompt for the payload on the terminal with echo disabled")
	targetAngles := flag.Int("angles", 0, "Target angle count (0 fills the pool)")
	configPath := flag.String("config", "", "Path to a YAML config file (defaults otherwise)")
	flag.Parse()

	if *carrierPath == "" {
		fmt.Fprintln(os.Stderr, "error: -carrier is required")
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	rawCarrier, err := os.ReadFile(*carrierPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading carrier: %v\n", err)
		os.Exit(1)
	}
	rec, err := carrier.ParseRecord(rawCarrier)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing carrier: %v\n", err)
		os.Exit(1)
	}

	payload, err := readPayload(*payloadPath, *prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading payload: %v\n", err)
		os.Exit(1)
	}

	var find finder.Finder = finder.Nop{}
	if cfg.FinderEndpoint != "" {
		find = finder.NewHTTPFinder(cfg.FinderEndpoint, cfg.FinderTimeout)
	}

	out, err := runEncode(rec, payload, *targetAngles, cfg, find)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "invocation %s: %s mode, %d bits embedded, %d warning(s)\n",
		out.InvocationID, out.Compression.Method, out.TotalBitsEmbedded, len(out.Warnings))
	for _, w := range out.Warnings {
		fmt.Fprintf(os.Stderr, "invocation %s: warning: %s\n", out.InvocationID, w)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "error writing output: %v\n", err)
		os.Exit(1)
	}
}

// runEncode recovers pipeline.FatalInvariantError at the boundary and
// reports it as an internal error rather than a warning.
func runEncode(rec carrier.Record, payload string, targetAngles int, cfg config.Config, find finder.Finder) (out pipeline.OutputRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			if fe, ok := r.(pipeline.FatalInvariantError); ok {
				err = fe
				return
			}
			panic(r)
		}
	}()
	return pipeline.Encode(context.Background(), rec, payload, targetAngles, cfg, find)
}

func readPayload(path string, prompt bool) (string, error) {
	if prompt {
		fmt.Fprint(os.Stderr, "payload: ")
		data, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read payload from terminal: %w", err)
		}
		return string(data), nil
	}

	if path == "" {
		return "", fmt.Errorf("either -payload or -prompt must be given")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read payload file: %w", err)
	}
	return carrier.ParsePayload(raw)
}
