package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artemshloyda/printvariants/internal/relocate"
)

// newRelocateCmd создаёт команду relocate для ручного переноса исходников в completed.
func newRelocateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relocate NAME...",
		Short: "Перенести исходники из rescale в completed",
		Long: `Переносит {NAME}.png и {NAME}.jpg из {root}/{товар}/rescale в {root}/{товар}/completed.

Если в completed уже есть файл с таким именем, он переименовывается
в резервную копию {NAME}-{unixnano}.{ext}. Расширение в NAME можно не указывать.

Пример:
  printvariants relocate --product blanket sunset forest_portrait`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadValid(cmd)
			if err != nil {
				return err
			}
			if cfg.Product == "" {
				return fmt.Errorf("нужно указать --product")
			}

			r := relocate.New(cfg.RootDir, newLogger(cfg))
			out := cmd.OutOrStdout()

			var moved int
			for _, name := range args {
				base := strings.TrimSuffix(name, filepath.Ext(name))
				res, err := r.Relocate(cfg.Product, base)
				if err != nil {
					return err
				}
				if len(res.Moves) == 0 {
					fmt.Fprintf(out, "⚠️  %s: не найден в rescale\n", base)
					continue
				}
				for _, m := range res.Moves {
					fmt.Fprintf(out, "📦 %s -> %s\n", m.From, m.To)
					if m.Backup != "" {
						fmt.Fprintf(out, "   прежний файл сохранён как %s\n", m.Backup)
					}
					moved++
				}
			}

			fmt.Fprintf(out, "\n✅ Перенесено файлов: %d\n", moved)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.product, "product", "p", "", "Тип товара")
	return cmd
}
