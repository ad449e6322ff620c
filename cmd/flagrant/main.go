// Command flagrant is the CLI client for the Admin and Evaluation APIs.
package main

import "github.com/mbuczko/flagrant/internal/flagcli"

func main() {
	flagcli.Execute()
}
