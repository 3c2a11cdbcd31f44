// The regsim command runs a register bank simulation. It plays a
// randomized write/read-back program against a simulated register bank
// and verifies every read against a software model.
package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// A .env file can provide defaults such as REGSIM_MONITOR_PORT.
	_ = godotenv.Load()

	Execute()
}
