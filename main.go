package main

import "github.com/theirongolddev/moneymate/cmd"

func main() {
	cmd.Execute()
}
