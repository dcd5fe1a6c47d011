package main

import "willchat/cli"

const Version = "v0.01.00"

func main() {
	cli.Execute(Version)
}
