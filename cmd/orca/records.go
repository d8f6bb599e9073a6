package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gmendes/orca/internal/cli"
	"github.com/gmendes/orca/internal/model"
)

func insumosCmd() *cobra.Command {
	return catalogCmd("insumos", "Manage priced input records", model.KindInsumo)
}

func compositionsCmd() *cobra.Command {
	return catalogCmd("compositions", "Manage composition templates", model.KindComposition)
}

// catalogCmd builds the shared list/add/delete/history command tree for one
// catalog family.
func catalogCmd(use, short string, kind model.RecordKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	cmd.AddCommand(catalogListCmd(kind))
	cmd.AddCommand(catalogAddCmd(kind))
	cmd.AddCommand(catalogDeleteCmd())
	cmd.AddCommand(catalogHistoryCmd())
	return cmd
}

func catalogListCmd(kind model.RecordKind) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all records in this family",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := store.ListRecords(cmd.Context(), kind)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println(cli.FormatInfo("catalog is empty"))
				return nil
			}

			for _, record := range records {
				tag := record.Tag
				if tag == "" {
					tag = "-"
				}
				fmt.Printf("%-36s  %-40s %-10s %10.4f  %s\n",
					record.ID, record.Name, record.Unit, record.Value, tag)
			}
			fmt.Println(cli.FormatInfo(fmt.Sprintf("%d record(s)", len(records))))
			return nil
		},
	}
}

func catalogAddCmd(kind model.RecordKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a record directly, bypassing the import flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			unit, _ := cmd.Flags().GetString("unit")
			value, _ := cmd.Flags().GetFloat64("value")
			tag, _ := cmd.Flags().GetString("tag")
			notes, _ := cmd.Flags().GetString("notes")

			record := &model.CatalogRecord{
				ID:    uuid.NewString(),
				Name:  args[0],
				Unit:  unit,
				Tag:   tag,
				Notes: notes,
				Kind:  kind,
			}
			record.AppendPrice(value, time.Now())

			if err := store.CreateRecord(cmd.Context(), record); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("added %s (%s)", record.Name, record.ID)))
			return nil
		},
	}

	cmd.Flags().String("unit", "", "unit of measure (kg, m2, h, ...)")
	cmd.Flags().Float64("value", 0, "current unit value")
	cmd.Flags().String("tag", "", "free-form grouping tag")
	cmd.Flags().String("notes", "", "notes")
	return cmd
}

func catalogDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record and its price history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRecord(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("record deleted"))
			return nil
		},
	}
}

func catalogHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show a record's full price history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			record, err := store.GetRecord(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s (%s), current value %.4f\n\n", record.Name, record.Unit, record.Value)
			for _, entry := range record.History {
				fmt.Printf("  %s  %10.4f\n", entry.RecordedAt.Format("2006-01-02 15:04"), entry.Value)
			}
			return nil
		},
	}
}
