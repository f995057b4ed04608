package main

import "github.com/OpenTraceLab/OpenTraceSpice/cmd/otspice/cmd"

func main() {
	cmd.Execute()
}
