package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dojohub/internal/adapters/storage/kv"
	"dojohub/internal/application/orchestrators"
	"dojohub/internal/domain/snapshot"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the stored record as JSON (stdout when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := openBackend(ctx)
		if err != nil {
			return err
		}
		defer b.Close()

		academy, err := b.openConsole(ctx)
		if err != nil {
			return err
		}
		data, err := snapshot.Encode(academy.Snapshot())
		if err != nil {
			return err
		}
		if len(args) == 0 {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(args[0], data, 0o600); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		slog.Info("export_written", "path", args[0], "bytes", len(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all state with a JSON record, such as a browser export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import: %w", err)
		}
		s, err := snapshot.Decode(data, time.Now())
		if err != nil {
			return err
		}

		b, err := openBackend(ctx)
		if err != nil {
			return err
		}
		defer b.Close()
		academy, err := b.openConsole(ctx)
		if err != nil {
			return err
		}
		if err := academy.Replace(ctx, s); err != nil {
			return err
		}
		slog.Info("import_applied",
			"path", args[0],
			"students", len(s.Students),
			"instructors", len(s.Instructors),
			"payments", len(s.Payments),
		)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored record; the next start seeds first-run content",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := openBackend(ctx)
		if err != nil {
			return err
		}
		defer b.Close()
		if err := b.adapter.Reset(ctx); err != nil {
			return err
		}
		slog.Info("record_reset", "db", cfg.DBPath)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add demo instructors, students, products, tasks and payments",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := openBackend(ctx)
		if err != nil {
			return err
		}
		defer b.Close()
		academy, err := b.openConsole(ctx)
		if err != nil {
			return err
		}
		n, err := orchestrators.ExecuteSeedDemo(ctx, orchestrators.SeedDemoDeps{Console: academy})
		if err != nil {
			return err
		}
		slog.Info("demo_seeded", "created", n)
		return nil
	},
}

var (
	importDryRun bool
	importUpdate bool
)

var importStudentsCmd = &cobra.Command{
	Use:   "import-students <file.csv>",
	Short: "Enroll students from a CSV file (NAME required; EMAIL, PHONE, BELT, ... optional)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()

		b, err := openBackend(ctx)
		if err != nil {
			return err
		}
		defer b.Close()
		academy, err := b.openConsole(ctx)
		if err != nil {
			return err
		}
		result, err := orchestrators.ExecuteImportStudents(ctx, orchestrators.ImportStudentsInput{
			Reader:     f,
			DryRun:     importDryRun,
			UpdateMode: importUpdate,
		}, orchestrators.ImportStudentsDeps{Console: academy})
		if err != nil {
			return err
		}
		return writeJSONTo(cmd.OutOrStdout(), result)
	},
}

var historyShow int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List replaced versions of the stored record, or print one with --show",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := openBackend(ctx)
		if err != nil {
			return err
		}
		defer b.Close()

		revs, err := b.store.History(ctx, snapshot.RecordKey, kv.DefaultHistoryDepth)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if cmd.Flags().Changed("show") {
			if historyShow < 1 || historyShow > len(revs) {
				return fmt.Errorf("--show must be between 1 and %d", len(revs))
			}
			_, err := out.Write(append(revs[historyShow-1].Value, '\n'))
			return err
		}
		for i, r := range revs {
			fmt.Fprintf(out, "%d\t%s\t%d bytes\n", i+1, r.ReplacedAt.Format(time.RFC3339), len(r.Value))
		}
		return nil
	},
}

func writeJSONTo(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	importStudentsCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "validate without writing")
	importStudentsCmd.Flags().BoolVar(&importUpdate, "update", false, "update students matched by email instead of skipping them")
	historyCmd.Flags().IntVar(&historyShow, "show", 0, "print revision N (1 is the most recent)")
	rootCmd.AddCommand(exportCmd, importCmd, resetCmd, seedCmd, importStudentsCmd, historyCmd)
}
