package cli

import "github.com/spf13/pflag"

// addTitleFlag registers --title on fs. Blank titles fall back to "Chat N".
func addTitleFlag(fs *pflag.FlagSet, title *string) {
	fs.StringVarP(title, "title", "t", "", "conversation title (default \"Chat N\")")
}

// addYesFlag registers --yes on fs for commands that confirm first.
func addYesFlag(fs *pflag.FlagSet, yes *bool) {
	fs.BoolVarP(yes, "yes", "y", false, "skip the confirmation prompt")
}
