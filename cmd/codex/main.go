// codex builds, verifies and publishes the 144-node codex dataset.
//
// Usage:
//
//	codex build    --input <seeds.json> --output <full.json> [--rules <palettes>] [--pretty]
//	codex validate --input <full.json> [--format ascii|markdown]
//	codex slice    --input <full.json> --output <slice.json> [--element E] [--culture C]
//	codex catalog  --input <full.json> --db <codex.db>
//	codex show     --input <full.json> --node <id>
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
