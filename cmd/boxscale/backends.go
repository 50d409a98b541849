package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/resize/rdefault"
)

func init() { rootCmd.AddCommand(backendsCmd) }

var backendsCmd = &cobra.Command{
	Use:   `backends`,
	Short: `list resizer backends`,
	Long:  `List resizer backends. The default is marked with "*".`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func(context.Context, *env) error {
			for _, name := range rdefault.Names() {
				mark := ` `
				if name == consts.ResizerDefaultName {
					mark = `*`
				}
				fmt.Println(mark, name)
			}
			return nil
		})
	},
}
