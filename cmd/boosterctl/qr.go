package main

import (
	"fmt"
	"os"

	"boosterClubAPI/internal/qr"

	"github.com/spf13/cobra"
)

func qrCmd() *cobra.Command {
	var (
		out    string
		width  int
		margin int
		dark   string
		light  string
		level  string
	)

	cmd := &cobra.Command{
		Use:   "qr [content]",
		Short: "Render a QR code PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s qr.Settings
			if cmd.Flags().Changed("width") {
				s.Width = &width
			}
			if cmd.Flags().Changed("margin") {
				s.Margin = &margin
			}
			if dark != "" || light != "" {
				s.Color = &qr.Colors{Dark: dark, Light: light}
			}
			s.ErrorCorrectionLevel = level

			png, err := qr.Render(args[0], s)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(png))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "qr.png", "output file")
	cmd.Flags().IntVar(&width, "width", qr.DefaultWidth, "image width in pixels")
	cmd.Flags().IntVar(&margin, "margin", qr.DefaultMargin, "quiet zone in modules")
	cmd.Flags().StringVar(&dark, "dark", "", "module color, e.g. #000000")
	cmd.Flags().StringVar(&light, "light", "", "background color, e.g. #ffffff")
	cmd.Flags().StringVar(&level, "level", "", "error correction level: L, M, Q or H")

	return cmd
}
