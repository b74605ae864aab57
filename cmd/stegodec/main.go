// Command stegodec is the reference decoder: given the carrier record that
// produced an output record and the record's "compressed" bit string, it
// reconstructs the original payload. It exists to let an operator verify
// that a stegoenc run round-trips.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"stego/bitio"
	"stego/carrier"
	"stego/compress"
	"stego/config"
	"stego/dictionary"
	"stego/thread"
)

type encoderOutput struct {
	Compression struct {
		Compressed string `json:"compressed"`
	} `json:"compression"`
}

func main() {
	carrierPath := flag.String("carrier", "", "Path to the carrier record JSON file used to produce the output")
	outputPath := flag.String("output", "", "Path to the stegoenc output record JSON file")
	configPath := flag.String("config", "", "Path to the YAML config used for encoding, if non-default")
	flag.Parse()

	if *carrierPath == "" || *outputPath == "" {
		fmt.Fprintln(os.Stderr, "error: -carrier and -output are both required")
		os.Exit(1)
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

	rawOutput, err := os.ReadFile(*outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading output record: %v\n", err)
		os.Exit(1)
	}
	var out encoderOutput
	if err := json.Unmarshal(rawOutput, &out); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing output record: %v\n", err)
		os.Exit(1)
	}

	flattened, err := thread.Flatten(rec.Post.Comments)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error flattening comment forest: %v\n", err)
		os.Exit(1)
	}
	dict := dictionary.Build(rec.Post, flattened.List)

	bits, err := bitio.ParseBits(out.Compression.Compressed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing bitstream: %v\n", err)
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

	payload, err := compress.Decode(bits, dict, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(payload)
}
