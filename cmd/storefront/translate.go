package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matst80/slask-storefront/pkg/common/jsoncompat"
	"github.com/matst80/slask-storefront/pkg/content"
	"github.com/matst80/slask-storefront/pkg/server"
)

func NewTranslateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "translate <url>",
		Short: "Print the facet state, canonical url and api params of a url",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			tc, err := cfg.TranslatorConfiguration()
			if err != nil {
				return err
			}
			tr := tc.Parse(args[0])
			enc := jsoncompat.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(server.TranslateResponse{
				Facets:    tr.Facets(),
				Options:   tr.Options(),
				Url:       tr.Url(),
				Canonical: tr.Url(),
				ApiParams: tr.ApiParams(),
				Title:     tr.Title(),
			})
		},
	}
}

func NewRouteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "route <path>",
		Short: "Resolve a path against the configured content patterns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			pattern, ok := content.BuildGraph(cfg.Content.Patterns).FindUrl(args[0])
			if !ok {
				return errNoRoute(args[0])
			}
			enc := jsoncompat.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(pattern)
		},
	}
}

func errNoRoute(path string) error {
	return fmt.Errorf("no content bound to %s", path)
}
