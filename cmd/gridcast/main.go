// Package main provides the Gridcast CLI.
package main

import (
	"fmt"
	"os"

	"github.com/gridcast-ml/gridcast/backend/webgpu"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Gridcast %s\n", version)
			return
		case "backends":
			fmt.Println("CPU: available")
			if webgpu.IsAvailable() {
				fmt.Println("WebGPU: available")
			} else {
				fmt.Println("WebGPU: not available")
			}
			return
		}
	}

	fmt.Println("Gridcast - Scatter-to-Grid Engine for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version     Show version")
	fmt.Println("  backends    List available compute backends")
}
