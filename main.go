package main

import "github.com/duskwallet/duskwallet/cmd"

func main() {
	cmd.Execute()
}
