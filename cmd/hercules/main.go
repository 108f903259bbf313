package main

import (
	"github.com/chrrivee/HerculesPi/internal/cmd"
)

func main() {
	cmd.Execute()
}
