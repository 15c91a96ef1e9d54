package main

import (
	"os"

	"github.com/quizlink/quizlink/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
