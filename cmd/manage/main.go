package main

import (
	"context"
	"log"
	"os"

	"github.com/provat/codetriage/internal/application/commands"
)

func main() {
	registry := commands.NewCommandRegistry()

	if err := registry.RegisterCLI().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
