package main

import (
	"os"

	"github.com/morokoshi/quizlet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
