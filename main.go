package main

import "argspecgen/cmd"

func main() {
	cmd.Execute()
}
