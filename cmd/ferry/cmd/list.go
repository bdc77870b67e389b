package cmd

import (
	"fmt"

	"github.com/go-ferry/ferry/pkg/permissions"
)

func init() {
	RegisterCommand(&Command{
		Name:  "list",
		Short: "List the permission catalog",
		Long: `List the symbolic permission names Ferry knows about and the
manifest identifiers they resolve to. Symbolic names are what goes in
ferry.yaml; the identifiers are what the native layer receives.`,
		Usage: "ferry list",
		Run:   runList,
	})
}

func runList(args []string) error {
	for _, name := range permissions.Names() {
		id, _ := permissions.Resolve(name)
		fmt.Printf("  %-24s %s\n", name, id)
	}
	return nil
}
