package main

import (
	"os"

	"tasklist/cli"
)

var version = "dev"

// @title Task List API
// @version 1.0
// @description In-memory task list: add, edit, complete, delete and filter tasks.
// @host localhost:7789
// @BasePath /api/v1
func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
