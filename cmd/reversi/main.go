package main

import "github.com/mcoot/reversigame-go/internal/cli"

func main() {
	cli.Execute()
}
