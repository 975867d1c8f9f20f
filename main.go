package main

import "github.com/dotcommander/csslint/cmd"

func main() {
	cmd.Execute()
}
