package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Reference format the glue importer expects: sales platform column, product
// id column, purchase platform column, in that order.
const glueTemplate = `Seller Central Amazon.in,ASIN,Amazon.com
403-1234567-1234567,B01N5IB20Q,111-2345678-9012345
405-7654321-7654321,B07XJ8C8F5,112-8765432-1098765
`

var glueTemplateCmd = &cobra.Command{
	Use:   "glue-template",
	Short: "Print the reference glue file format",
	Long: `Prints a glue file template to stdout. Fill one row per order:
the sales-platform order id, the product id (ASIN), and the
purchase-platform order id. Leave a cell empty when the counterpart
order does not exist yet.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(glueTemplate)
	},
}

func init() {
	rootCmd.AddCommand(glueTemplateCmd)
}
