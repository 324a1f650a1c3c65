package main

import (
	"fmt"
	"os"

	"github.com/bill-tools/smart-bill/pkg/runtime/terminal/commands"
)

func main() {
	cmd := commands.NewServeCmd()
	cmd.Use = "web"
	cmd.Short = "Start the estimate editing server"

	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
