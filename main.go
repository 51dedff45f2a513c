package main

import "fmerge/cmd"

func main() {
	cmd.Execute()
}
