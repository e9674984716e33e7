package main

import (
	"encoding/json"
	"fmt"

	"boosterClubAPI/internal/paymentlink"

	"github.com/spf13/cobra"
)

func linkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Build or decode Zelle payment links",
	}
	cmd.AddCommand(linkEncodeCmd())
	cmd.AddCommand(linkDecodeCmd())
	return cmd
}

func linkEncodeCmd() *cobra.Command {
	var name, token string

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the Zelle link for a recipient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := paymentlink.Encode(paymentlink.NewPayload(name, token))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "recipient display name")
	cmd.Flags().StringVar(&token, "token", "", "enrolled email or phone")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("token")

	return cmd
}

func linkDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [url]",
		Short: "Show the payload embedded in a Zelle link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := paymentlink.Decode(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}
}
