package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/satriahrh/jurubahasa/domain/entities"
)

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "languages",
		Short:   "List the supported target languages",
		Example: `  jurubahasa languages`,
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), languageTable(entities.DefaultLanguages()))
		},
	}
}

func languageTable(languages entities.LanguageTable) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CODE", "LANGUAGE")
	for _, lang := range languages.All() {
		t.Row(lang.Code, lang.Name)
	}
	return t.String()
}
