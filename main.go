package main

import (
	"os"

	"github.com/VLP-TECH/camara-vlc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
