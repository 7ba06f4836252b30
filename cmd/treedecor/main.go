package main

import (
	"log"

	"github.com/ivlev/treedecor/cmd/treedecor/commands"
)

// Version is stamped at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := commands.Execute(Version); err != nil {
		log.Fatalf("[-] %v", err)
	}
}
