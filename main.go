/* main.go
 * The "main" method for the scoreline command. See `scoreline --help` for the subcommands
 * Usage: go run . parse "64 46 107" --format matchtiebreak
 */

package main

import "scoreline-bot/cli"

func main() {
	cli.Execute()
}
