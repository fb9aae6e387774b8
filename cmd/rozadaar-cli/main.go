package main

import "rozadaar/cmd/rozadaar-cli/cmd"

func main() {
	cmd.Execute()
}
