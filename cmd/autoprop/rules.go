package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/autoprop"
	"github.com/aretw0/autoprop/pkg/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List and edit the auto-property rules of the vault",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, s, err := loadSettings()
		if err != nil {
			return err
		}
		if len(s.Rules) == 0 {
			fmt.Printf("no rules configured in %s\n", root)
			return nil
		}
		for _, r := range s.Rules {
			fmt.Printf("%s %s\n", r.Key, rules.Summary(r))
		}
		return nil
	},
}

var newRule = rules.DefaultRule()

var rulesAddCmd = &cobra.Command{
	Use:   "add <key> [pattern]",
	Short: "Add a rule",
	Example: `  autoprop rules add summary "Summary:" --omit-pattern
  autoprop rules add todos "- [ ]" --selector count --auto-add
  autoprop rules add created --source createdTimestamp`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, s, err := loadSettings()
		if err != nil {
			return err
		}

		r := newRule
		r.Key = args[0]
		if len(args) > 1 {
			r.Pattern = args[1]
		}
		if err := s.AddRule(r); err != nil {
			return err
		}
		if err := autoprop.SaveSettings(root, s); err != nil {
			return err
		}
		fmt.Printf("added %s %s\n", r.Key, rules.Summary(r.Normalized()))
		return nil
	},
}

var rulesRemoveCmd = &cobra.Command{
	Use:   "remove <key>",
	Short: "Remove a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editSettings(func(s *autoprop.Settings) error { return s.RemoveRule(args[0]) })
	},
}

var rulesEnableCmd = &cobra.Command{
	Use:   "enable <key>",
	Short: "Enable a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editSettings(func(s *autoprop.Settings) error { return s.SetEnabled(args[0], true) })
	},
}

var rulesDisableCmd = &cobra.Command{
	Use:   "disable <key>",
	Short: "Disable a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editSettings(func(s *autoprop.Settings) error { return s.SetEnabled(args[0], false) })
	},
}

func loadSettings() (string, autoprop.Settings, error) {
	root, err := resolveVault()
	if err != nil {
		return "", autoprop.Settings{}, err
	}
	s, err := autoprop.LoadSettings(root)
	return root, s, err
}

func editSettings(edit func(*autoprop.Settings) error) error {
	root, s, err := loadSettings()
	if err != nil {
		return err
	}
	if err := edit(&s); err != nil {
		return err
	}
	return autoprop.SaveSettings(root, s)
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd, rulesAddCmd, rulesRemoveCmd, rulesEnableCmd, rulesDisableCmd)

	f := rulesAddCmd.Flags()
	f.StringVar((*string)(&newRule.Selector), "selector", string(newRule.Selector), "first, all or count")
	f.StringVar((*string)(&newRule.Predicate), "predicate", string(newRule.Predicate), "startsWith, contains, endsWith or regex")
	f.StringVar((*string)(&newRule.Source), "source", string(newRule.Source), "bodyScan, createdTimestamp, modifiedTimestamp or bodyCharacterCount")
	f.BoolVar(&newRule.TrimWhitespace, "trim", newRule.TrimWhitespace, "Trim whitespace from matched lines")
	f.BoolVar(&newRule.OmitPattern, "omit-pattern", newRule.OmitPattern, "Remove the pattern from matched lines")
	f.BoolVar(&newRule.CaseSensitive, "case-sensitive", newRule.CaseSensitive, "Match the pattern case-sensitively")
	f.BoolVar(&newRule.AutoAdd, "auto-add", newRule.AutoAdd, "Add the key to notes that lack it")
	f.BoolVar(&newRule.Enabled, "enabled", newRule.Enabled, "Enable the rule")
}
