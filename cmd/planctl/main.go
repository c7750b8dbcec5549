package main

import (
	"log"

	"alcyxob/coach-dashboard/internal/cli"
)

func main() {
	if err := cli.New().Execute(); err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
