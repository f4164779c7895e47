package main

import "ledgerdesk/internal/cli"

func main() {
	cli.Execute()
}
