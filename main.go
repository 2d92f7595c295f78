package main

import "barbershop-booking/cmd"

func main() {
	cmd.Execute()
}
