package main

import "github.com/ojtrack/ojtrack/cmd/ojtrack/cmd"

func main() {
	cmd.Execute()
}
