package main

import "nextdocs/cmd"

func main() {
	cmd.Execute()
}
