// Command loom is an interactive terminal assistant that mediates between
// a developer and a locally-hosted LLM server (Ollama, vLLM, LM Studio, or
// Hugging Face TGI).
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := NewLoomCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing root command: %v\n", err)
		os.Exit(1)
	}
}
