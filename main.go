package main

import (
	"os"

	"github.com/growtools/growtools/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
