// Command taximport imports tax-jurisdiction records from CSV/XLSX files
// into the CRM's batch-create endpoint and exports them back out.
package main

import (
	"taximport/internal/cli"
)

func main() {
	cli.Execute()
}
