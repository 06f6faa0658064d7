package main

import "globe-tools/cmd"

func main() {
	cmd.Execute()
}
