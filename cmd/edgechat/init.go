package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// initCmd interactively scaffolds an edgechat.yaml in the current directory.
func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactively create an edgechat.yaml",
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := os.Stat("edgechat.yaml"); err == nil {
				return fmt.Errorf("edgechat.yaml already exists, not overwriting")
			}

			var (
				bind      = "127.0.0.1:8080"
				accountID string
				model     = "@cf/meta/llama-3.3-70b-instruct-fp8-fast"
				persist   = true
				retention = "720h"
			)

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Bind address").
						Description("Host:port for the HTTP gateway").
						Value(&bind),
					huh.NewInput().
						Title("Cloudflare account ID").
						Description("The Workers AI account the provider calls").
						Value(&accountID).
						Validate(func(s string) error {
							if strings.TrimSpace(s) == "" {
								return fmt.Errorf("account ID is required")
							}
							return nil
						}),
					huh.NewInput().
						Title("Model").
						Value(&model),
				),
				huh.NewGroup(
					huh.NewConfirm().
						Title("Persist sessions to SQLite?").
						Description("Without it, session memory is lost on restart").
						Value(&persist),
					huh.NewInput().
						Title("Session retention").
						Description("Purge sessions idle longer than this (Go duration, empty disables)").
						Value(&retention),
				),
			)

			if err := form.Run(); err != nil {
				return err
			}

			cfg := renderConfig(bind, accountID, model, persist, retention)
			if err := os.WriteFile("edgechat.yaml", []byte(cfg), 0o644); err != nil {
				return err
			}

			fmt.Println("Wrote edgechat.yaml")
			fmt.Println("Set CLOUDFLARE_API_TOKEN in the environment, then run: edgechat start")
			return nil
		},
	}
}

func renderConfig(bind, accountID, model string, persist bool, retention string) string {
	var b strings.Builder
	b.WriteString("version: \"1\"\n\n")
	b.WriteString("modules:\n")
	b.WriteString("  gateway.http:\n")
	fmt.Fprintf(&b, "    bind: %q\n", bind)
	b.WriteString("  provider.workersai:\n")
	fmt.Fprintf(&b, "    account_id: %q\n", accountID)
	fmt.Fprintf(&b, "    model: %q\n", model)
	b.WriteString("    api_token: \"${CLOUDFLARE_API_TOKEN}\"\n")
	if persist {
		b.WriteString("  memory.sqlite:\n")
		b.WriteString("    path: \"sessions.db\"\n")
	}
	if retention != "" {
		b.WriteString("\nretention:\n")
		fmt.Fprintf(&b, "  max_idle: %q\n", retention)
	}
	return b.String()
}
