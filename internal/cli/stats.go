package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/artemshloyda/printvariants/internal/output"
	"github.com/artemshloyda/printvariants/internal/storage"
)

// newStatsCmd создаёт команду stats для просмотра базы листингов и запусков.
func newStatsCmd(opts *options) *cobra.Command {
	var (
		list     bool
		deleteID int64
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Показать статистику листингов и запусков",
		Long: `Показывает статистику из базы данных: записи листингов и журнал запусков.

Примеры:
  printvariants stats --root ./products
  printvariants stats --db ./state.sqlite --list --product pillow
  printvariants stats --root ./products --delete 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			// Явного пути к БД достаточно, корень не обязателен.
			if cfg.DBPath == "" {
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("ошибка конфигурации: %w", err)
				}
			}

			store, err := storage.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("не удалось открыть БД: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()

			if deleteID > 0 {
				if err := store.SoftDeleteArtwork(deleteID); err != nil {
					return err
				}
				fmt.Fprintf(out, "🗑️  Запись %d помечена удалённой\n", deleteID)
				return nil
			}

			st, err := store.GetStats()
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "📊 Статистика (%s):\n", cfg.DBPath)
			fmt.Fprintf(out, "   Листингов: %d (удалено: %d)\n", st.Artworks, st.DeletedArtworks)
			fmt.Fprintf(out, "   Запусков: %d\n", st.Runs)
			fmt.Fprintf(out, "     ✅ ok: %d\n", st.RunsOK)
			fmt.Fprintf(out, "     ⚠️  partial: %d\n", st.RunsPartial)
			fmt.Fprintf(out, "     ❌ failed: %d\n", st.RunsFailed)
			if st.RunsInProgress > 0 {
				fmt.Fprintf(out, "     ⏳ in_progress: %d\n", st.RunsInProgress)
			}

			if !list {
				return nil
			}

			artworks, err := store.ListArtworks(string(cfg.Product))
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPRODUCT\tFILE\tCREATED")
			for _, a := range artworks {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.Product, a.FileName, a.CreatedAt.Format(output.DateLayout))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "Показать активные записи листингов")
	cmd.Flags().StringVarP(&opts.product, "product", "p", "", "Фильтр по типу товара для --list")
	cmd.Flags().Int64Var(&deleteID, "delete", 0, "Мягко удалить запись листинга по id")

	return cmd
}
