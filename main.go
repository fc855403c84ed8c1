package main

import "github.com/robalobadob/mastermind/cmd"

func main() {
	cmd.Execute()
}
