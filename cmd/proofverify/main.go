package main

import "github.com/pilacorp/go-agentproof-sdk/cmd/proofverify/app"

func main() {
	app.Execute()
}
