package cmd

import (
	"fmt"
	"strings"

	"github.com/go-ferry/ferry/cmd/ferry/internal/config"
	"github.com/go-ferry/ferry/pkg/permissions"
)

func init() {
	RegisterCommand(&Command{
		Name:  "lint",
		Short: "Check declared permissions against the catalog",
		Long: `Check the permissions declared in ferry.yaml against the catalog.

Symbolic names (CAMERA, READ_CONTACTS, ...) must resolve to a catalog
entry. Raw manifest identifiers (anything containing a dot) are passed
to the native layer unexamined at runtime, so lint only notes the ones
outside the catalog instead of rejecting them.`,
		Usage: "ferry lint [project-dir]",
		Run:   runLint,
	})
}

func runLint(args []string) error {
	var dir string
	var err error
	if len(args) > 0 {
		dir = args[0]
	} else {
		dir, err = config.FindProjectRoot()
		if err != nil {
			return err
		}
	}

	resolved, err := config.Resolve(dir)
	if err != nil {
		return err
	}

	fmt.Printf("App: %s (%s)\n", resolved.AppName, resolved.AppID)

	if len(resolved.Permissions) == 0 {
		fmt.Println("No permissions declared in ferry.yaml.")
		return nil
	}

	var unknown []string
	for _, entry := range resolved.Permissions {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if strings.Contains(entry, ".") {
			if catalogHasIdentifier(entry) {
				fmt.Printf("  ok     %s\n", entry)
			} else {
				fmt.Printf("  note   %s (not in catalog, forwarded as-is)\n", entry)
			}
			continue
		}

		if id, ok := permissions.Resolve(entry); ok {
			fmt.Printf("  ok     %s -> %s\n", entry, id)
		} else {
			fmt.Printf("  error  %s (unknown symbolic name)\n", entry)
			unknown = append(unknown, entry)
		}
	}

	if len(unknown) > 0 {
		return fmt.Errorf("unknown symbolic permission names: %s", strings.Join(unknown, ", "))
	}
	return nil
}

func catalogHasIdentifier(id string) bool {
	for _, name := range permissions.Names() {
		if resolved, _ := permissions.Resolve(name); resolved == id {
			return true
		}
	}
	return false
}
