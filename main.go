package main

import "r2-explorer/cmd"

func main() {
	cmd.Execute()
}
