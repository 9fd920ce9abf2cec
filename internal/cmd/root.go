package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quack",
	Short: "🦆 Quack - desktop AI assistant companion",
	Long: `# 🦆 Quack

**The companion process behind the Quack desktop assistant.**

## ✨ Features

- 💬 **Chat sessions** against the Magic completion service
- 🟡 **Magic dot overlay** with follow and pin modes
- 🪟 **Foreground window tracking** for contextual answers
- 📡 **Event stream** (SSE/WebSocket) feeding every shell window

## 🚀 Getting Started

Run **quack serve** to start the companion API for the desktop shell,
or **quack chat** for a terminal chat session.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderMarkdownHelp(cmd)
	})
}

// renderMarkdownHelp renders command help with glamour
func renderMarkdownHelp(cmd *cobra.Command) {
	var help strings.Builder

	if cmd.Long != "" {
		help.WriteString(cmd.Long)
		help.WriteString("\n\n")
	} else if cmd.Short != "" {
		help.WriteString("# " + cmd.Short + "\n\n")
	}

	help.WriteString("## 📖 Usage\n\n```bash\n")
	help.WriteString(cmd.UseLine())
	help.WriteString("\n```\n\n")

	if cmd.HasAvailableSubCommands() {
		help.WriteString("## 🔧 Available Commands\n\n")
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				help.WriteString(fmt.Sprintf("- **%s** - %s\n", sub.Name(), sub.Short))
			}
		}
		help.WriteString("\n")
	}

	if cmd.HasAvailableFlags() {
		if usages := cmd.Flags().FlagUsages(); usages != "" {
			help.WriteString("## ⚙️  Flags\n\n```\n")
			help.WriteString(usages)
			help.WriteString("```\n\n")
		}
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Print(help.String())
		return
	}

	rendered, err := renderer.Render(help.String())
	if err != nil {
		fmt.Print(help.String())
		return
	}
	fmt.Print(rendered)
}
