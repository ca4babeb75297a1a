package main

import (
	"os"

	"github.com/sparky-messaging/sparky-admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
