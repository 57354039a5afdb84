package main

import "github.com/kalongo/booking-pricing/internal/cli"

func main() {
	cli.Execute()
}
