package main

import "github.com/sophistic/Quack/internal/cmd"

func main() {
	cmd.Execute()
}
