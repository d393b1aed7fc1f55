package main

import "LSLViewPoint/internel/cli"

func main() {
	cli.Execute()
}
