package main

import "github.com/mynl/qmdtools/cmd"

func main() {
	cmd.Execute()
}
