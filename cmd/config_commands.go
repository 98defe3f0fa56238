package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the `config` command and its subcommands.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect grove-chat configuration",
		Long: `Inspect grove-chat configuration.

Settings are read from the 'chat' section of grove.yml, then from a .env file in
the current directory, then from GROVE_CHAT_* environment variables.`,
	}

	flags := &connectionFlags{}
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolveConfig(cmd)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(map[string]*ChatConfig{"chat": cfg})
			if err != nil {
				return fmt.Errorf("failed to marshal config to YAML: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	flags.register(showCmd)

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema for the 'chat' section of grove.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(ChatConfigSchema(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(schemaCmd)
	return configCmd
}

// ChatConfigSchema reflects ChatConfig into a JSON schema.
func ChatConfigSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&ChatConfig{})
	schema.Title = "Grove Chat Configuration"
	schema.Description = "Schema for the 'chat' extension in grove.yml."

	// Make all fields optional - Grove configs should not require any fields
	schema.Required = nil
	return schema
}
