package main

import "github.com/zonoapp/workforce/cmd"

func main() {
	cmd.Execute()
}
