package main

import "tsimport/cmd"

func main() {
	cmd.Execute()
}
