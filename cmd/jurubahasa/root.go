package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile string
	demo    bool
	lang    string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "jurubahasa",
		Short: "Speak, and hear it back in another language",
		Long: `jurubahasa listens to one utterance from the microphone, recognizes it,
translates it into the selected language and speaks the translation.

Without a subcommand it opens the control panel.`,
		Example: `  jurubahasa --lang fr
  jurubahasa --demo
  jurubahasa once --lang ja`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPanel(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "env file to load (default .env)")
	cmd.PersistentFlags().BoolVar(&opts.demo, "demo", false, "use built-in mock backends instead of microphone and cloud services")
	cmd.PersistentFlags().StringVarP(&opts.lang, "lang", "l", "", "target language code or name")

	cmd.AddCommand(
		newOnceCommand(opts),
		newLanguagesCommand(),
	)

	return cmd
}
