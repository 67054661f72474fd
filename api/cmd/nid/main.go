package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"nid-extract/api/internal/config"
	"nid-extract/api/internal/nid"
	"nid-extract/api/internal/ocr"
	"nid-extract/api/internal/ocr/gemini"
	"nid-extract/api/internal/ocr/genai"
)

func main() {
	jsonOut := flag.Bool("json", false, "print the result as JSON on stdout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n*** ERROR: %v ***\n\n", err)
		os.Exit(2)
	}

	path := strings.TrimSpace(flag.Arg(0))
	if path == "" {
		fmt.Print("Enter full path to ID image file: ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		path = strings.TrimSpace(line)
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "no image path given")
		os.Exit(1)
	}

	var engine ocr.Engine
	if cfg.GeminiTransport == "sdk" {
		engine = genai.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	} else {
		engine = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	}

	if !*jsonOut {
		fmt.Println("--- Starting National ID Extraction ---")
	}

	x := nid.NewExtractor(engine)
	id, err := x.ExtractFile(context.Background(), path)

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		if err != nil {
			_ = enc.Encode(map[string]string{"error": err.Error()})
			os.Exit(1)
		}
		_ = enc.Encode(map[string]string{"national_id": id})
		return
	}

	if err != nil {
		fmt.Printf("\n❌ Failed to extract the 14-digit National ID: %v\n", err)
		fmt.Println("--- Extraction Complete ---")
		os.Exit(1)
	}
	fmt.Println("\n=============================================")
	fmt.Printf("Extracted National ID (14 digits): %s\n", id)
	fmt.Println("=============================================")
	fmt.Println("--- Extraction Complete ---")
}
