package main

import (
	"github.com/snowprep/snowprep/cmd"
)

func main() {
	cmd.Execute()
}
