package main

import "github.com/artemshloyda/printvariants/internal/cli"

func main() {
	cli.Execute()
}
