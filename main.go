package main

import "github.com/meshwise/meshcost/cmd"

func main() {
	cmd.Execute()
}
