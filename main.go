package main

import "github.com/iterlife/expdash/cmd"

func main() {
	cmd.Execute()
}
