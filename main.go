package main

import "github.com/bnema/modscan/cmd"

func main() {
	cmd.Execute()
}
