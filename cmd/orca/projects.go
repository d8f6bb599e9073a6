package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gmendes/orca/internal/cli"
	"github.com/gmendes/orca/internal/model"
	"github.com/gmendes/orca/internal/workflow"
)

func projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage quoting projects on the kanban board",
	}

	cmd.AddCommand(projectsBoardCmd())
	cmd.AddCommand(projectsAddCmd())
	cmd.AddCommand(projectsAdvanceCmd())
	cmd.AddCommand(projectsMoveCmd())
	cmd.AddCommand(projectsWatchCmd())
	return cmd
}

func projectsBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Show the board, grouped by column",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			board, err := workflow.Board(cmd.Context(), store)
			if err != nil {
				return err
			}

			for _, column := range workflow.Columns() {
				projects := board[column]
				if len(projects) == 0 {
					continue
				}
				fmt.Println(cli.FormatInfo(fmt.Sprintf("%s (%d)", column, len(projects))))
				for _, project := range projects {
					fmt.Printf("  %-36s  %-30s %s  since %s\n",
						project.ID, project.Name, project.Client,
						project.StatusChangedAt.Format("2006-01-02"))
				}
			}
			return nil
		},
	}
}

func projectsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project in the briefing column",
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

			client, _ := cmd.Flags().GetString("client")
			notes, _ := cmd.Flags().GetString("notes")

			project := &model.Project{
				ID:     uuid.NewString(),
				Name:   args[0],
				Client: client,
				Notes:  notes,
				Status: model.StatusBriefing,
			}
			if err := store.SaveProject(cmd.Context(), project); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("created %s (%s)", project.Name, project.ID)))
			return nil
		},
	}

	cmd.Flags().String("client", "", "client name")
	cmd.Flags().String("notes", "", "notes")
	return cmd
}

func projectsAdvanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <id>",
		Short: "Move a project to the next column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			next, err := workflow.Advance(cmd.Context(), store, args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("project is now in %s", next)))
			return nil
		},
	}
}

func projectsMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <column>",
		Short: "Move a project to an explicit column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			status := model.ProjectStatus(args[1])
			if err := workflow.Move(cmd.Context(), store, args[0], status, time.Now()); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("project is now in %s", status)))
			return nil
		},
	}
}

func projectsWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the follow-up monitor until interrupted",
		Long: `Watch sweeps the board on an interval and moves every project that has
been sitting in the sent column past the follow-up threshold into follow_up.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			followUpAfter := viper.GetDuration("workflow.follow_up_after")
			interval, _ := cmd.Flags().GetDuration("interval")

			monitor := workflow.NewMonitor(store, followUpAfter, interval, slog.Default())
			slog.Info("watching board", "interval", interval)
			err = monitor.Run(cmd.Context())
			if err != nil && cmd.Context().Err() != nil {
				return nil // clean shutdown on interrupt
			}
			return err
		},
	}

	cmd.Flags().Duration("interval", time.Minute, "sweep interval")
	return cmd
}
