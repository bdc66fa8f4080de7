package main

import "github.com/jaminalder/tictactoe/internal/cli"

func main() {
	cli.Execute()
}
