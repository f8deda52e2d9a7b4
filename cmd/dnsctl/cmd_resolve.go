package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edvin/mailwatch/internal/model"
	"github.com/edvin/mailwatch/internal/poller"
)

func newCmdResolve() *cobra.Command {
	var (
		field  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "resolve <domain> <kind>",
		Short: "Resolve a record through every resolver and print the consensus",
		Long: "Resolve a record through every configured resolver and print the values a majority agrees on.\n" +
			"Kinds: txt, mx, spf, dmarc, dkim, mta-sts, tlsa, tls-rpt.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseRecordKind(args[1])
			if err != nil {
				return err
			}
			if field == "" {
				field = poller.DefaultField(kind)
			}

			e, err := loadEnv(false)
			if err != nil {
				return err
			}
			p, _, err := e.poller()
			if err != nil {
				return err
			}

			records, err := p.GetRecord(cmd.Context(), field, args[0], kind)
			if err != nil {
				return err
			}
			records = poller.Target{Kind: kind, Field: field}.Filter(records)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			if len(records) == 0 {
				fmt.Fprintf(out, "No %s records at %s\n", kind, poller.FQDN(field, args[0]))
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPRIORITY\tTTL\tVALUE\tRESOLVERS")
			for _, r := range records {
				prio := "-"
				if r.Priority != nil {
					prio = fmt.Sprint(*r.Priority)
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", r.Name, prio, r.TTL, r.Value, strings.Join(r.Resolvers, ","))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&field, "field", "", "Record name relative to the domain (defaults to the kind's conventional name)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")
	return cmd
}
