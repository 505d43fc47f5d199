package main

import "github.com/Digital-Shane/entry-sift/internal/cmd"

func main() {
	cmd.Execute()
}
