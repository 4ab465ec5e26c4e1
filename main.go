package main

import (
	"taxlot/cmd"
)

func main() {
	cmd.Execute()
}
