/*
main.go - Application entry point

PURPOSE:
  Starts the resource planner. Command wiring lives in the commands
  package: the root command serves the HTTP API, "export" writes a
  company grid to an xlsx workbook.

CONFIGURATION:
  Flags override environment variables, which override .env:
    --port / PORT            HTTP server port (default: 8080)
    --db / DB_PATH           SQLite database path (default: planner.db)
                             Use ":memory:" for an in-memory database
    --log-dir / LOGS_FOLDER  Directory for rotating log files
    SETTINGS_FILE            YAML defaults for new companies
    CORS_ORIGINS             Comma separated allowed origins
    -v / VERBOSE             Debug logging

EXAMPLES:
  # Run with file database
  ./server --db=./data/planner.db

  # Export a quarter for one company
  ./server export --company=studio --view=3-months --out=studio.xlsx

SEE ALSO:
  - cmd/server/commands: Command definitions
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"fmt"
	"os"

	"github.com/warp/resource-planner/cmd/server/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
