/*
main.go (decretos) - Command line client for the decree ledger.

PURPOSE:
Inspect a decree database from the terminal without running the HTTP
server: list the decree book, resolve day-bank balances, reconcile
yearly usage and surface low-balance alerts.

KEY CONCEPTS:
- Read-only: every subcommand opens the SQLite store, takes one
  snapshot and renders it. Mutations go through the HTTP API.
- Output: human tables by default, --json for machines.

SEE ALSO:
- cmd/server/main.go: the HTTP server over the same store.
- decreto/balance.go, decreto/usage.go, decreto/alerts.go: the
  calculations rendered here.
*/
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gdpcloud/decreto-engine/decreto"
	"github.com/gdpcloud/decreto-engine/store"
	"github.com/gdpcloud/decreto-engine/store/sqlite"
)

var rootCmd = &cobra.Command{
	Use:   "decretos",
	Short: "Decree ledger inspector",
	Long: `Inspect a decree database: the decree book, running day-bank
balances per employee, yearly usage reconciliation and low-balance
alerts. All commands are read-only.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	rootCmd.AddCommand(bookCmd())
	rootCmd.AddCommand(balanceCmd())
	rootCmd.AddCommand(usageCmd())
	rootCmd.AddCommand(alertsCmd())
	rootCmd.AddCommand(correlativesCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("DECRETOS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("db", "decretos.db", "path to the SQLite database")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().Float64("base-pa", 6, "starting administrative day bank")
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("base-pa", rootCmd.PersistentFlags().Lookup("base-pa"))
}

func bookCmd() *cobra.Command {
	var rut, kind string
	var year int
	cmd := &cobra.Command{
		Use:   "book",
		Short: "List the decree book",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshot(cmd.Context(), func(snap store.Snapshot) error {
				decrees := snap.Decrees
				if rut != "" {
					decrees = filterDecrees(decrees, func(d *decreto.Decree) bool {
						return decreto.NormalizeRUT(d.RUT) == decreto.NormalizeRUT(rut)
					})
				}
				if kind != "" {
					k := decreto.Kind(strings.ToUpper(kind))
					decrees = filterDecrees(decrees, func(d *decreto.Decree) bool { return d.Kind == k })
				}
				if year > 0 {
					decrees = filterDecrees(decrees, func(d *decreto.Decree) bool { return d.FechaInicio.Year() == year })
				}
				if viper.GetBool("json") {
					return printJSON(decrees)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Acto", "Tipo", "Funcionario", "RUT", "Inicio", "Días", "Saldo final"})
				for _, d := range decrees {
					tw.AppendRow(table.Row{
						d.Acto, d.Kind, d.Funcionario, d.RUT,
						d.FechaInicio.String(), d.CantidadDias.String(),
						d.ClosingBalance().String(),
					})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&rut, "rut", "", "filter by employee RUT")
	cmd.Flags().StringVar(&kind, "kind", "", "filter by decree kind (PA or FL)")
	cmd.Flags().IntVar(&year, "year", 0, "filter by start year")
	return cmd
}

func balanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance <rut>",
		Short: "Resolve day-bank balances for an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rut := args[0]
			if !decreto.ValidRUT(rut) {
				return fmt.Errorf("invalid RUT %q", rut)
			}
			return withSnapshot(cmd.Context(), func(snap store.Snapshot) error {
				opts := decreto.ResolveOptions{BaseDaysPA: decimal.NewFromFloat(viper.GetFloat64("base-pa"))}
				pa := decreto.ResolveBalance(snap.Decrees, rut, decreto.KindPA, opts)
				fl := decreto.ResolveBalance(snap.Decrees, rut, decreto.KindFL, opts)
				sug := decreto.SuggestFL(snap.Decrees, rut, "")
				if viper.GetBool("json") {
					return printJSON(map[string]any{
						"rut":       decreto.NormalizeRUT(rut),
						"pa":        pa,
						"fl":        fl,
						"flPeriodo": sug.Periodo,
					})
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Tipo", "Saldo", "Período"})
				tw.AppendRow(table.Row{"PA", pa.String(), ""})
				tw.AppendRow(table.Row{"FL", fl.String(), sug.Periodo})
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func usageCmd() *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Reconcile yearly leave usage per employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = time.Now().Year()
			}
			return withSnapshot(cmd.Context(), func(snap store.Snapshot) error {
				employees := decreto.ReconcileUsage(snap.Employees, snap.Requests, snap.Decrees, year, decreto.ChileanHolidays())
				if viper.GetBool("json") {
					return printJSON(employees)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Funcionario", "RUT", "Vacaciones", "Administrativos", "Licencias"})
				for _, e := range employees {
					tw.AppendRow(table.Row{
						e.FullName(), e.RUT,
						fmt.Sprintf("%s/%s", e.UsedVacationDays.String(), e.TotalVacationDays.String()),
						fmt.Sprintf("%s/%s", e.UsedAdminDays.String(), e.TotalAdminDays.String()),
						fmt.Sprintf("%s/%s", e.UsedSickDays.String(), e.TotalSickDays.String()),
					})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "reference year (default current)")
	return cmd
}

func alertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List employees with low day-bank balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshot(cmd.Context(), func(snap store.Snapshot) error {
				opts := decreto.ResolveOptions{BaseDaysPA: decimal.NewFromFloat(viper.GetFloat64("base-pa"))}
				alerts := decreto.LowBalances(snap.Decrees, opts)
				if viper.GetBool("json") {
					return printJSON(alerts)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Funcionario", "RUT", "Tipo", "Saldo", "Nivel"})
				for _, a := range alerts {
					level := "aviso"
					if a.Critical() {
						level = "crítico"
					}
					tw.AppendRow(table.Row{a.Funcionario, a.RUT, a.Kind, a.Balance.String(), level})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func correlativesCmd() *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "correlatives",
		Short: "Show the next decree numbers for a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = time.Now().Year()
			}
			return withSnapshot(cmd.Context(), func(snap store.Snapshot) error {
				c := decreto.NextCorrelatives(snap.Decrees, year)
				if viper.GetBool("json") {
					return printJSON(c)
				}
				fmt.Printf("Year %d\n", c.Year)
				fmt.Printf("  next PA: %s\n", c.NextPA)
				fmt.Printf("  next FL: %s\n", c.NextFL)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year (default current)")
	return cmd
}

// --- helpers ---

func withSnapshot(ctx context.Context, fn func(store.Snapshot) error) error {
	st, err := sqlite.New(viper.GetString("db"))
	if err != nil {
		return err
	}
	defer st.Close()
	snap, err := st.Snapshot(ctx)
	if err != nil {
		return err
	}
	return fn(snap)
}

func filterDecrees(in []*decreto.Decree, keep func(*decreto.Decree) bool) []*decreto.Decree {
	var out []*decreto.Decree
	for _, d := range in {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
