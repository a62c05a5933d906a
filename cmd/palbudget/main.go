package main

import "pal-budget/cmd/palbudget/cmd"

func main() {
	cmd.Execute()
}
