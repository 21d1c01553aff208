package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/artemshloyda/printvariants/internal/catalog"
	"github.com/artemshloyda/printvariants/internal/product"
)

// newCatalogCmd создаёт команду catalog, печатающую таблицу вариантов.
func newCatalogCmd() *cobra.Command {
	var (
		productName string
		orientation string
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Показать каталог вариантов по товарам",
		Long: `Показывает варианты, которые генерируются для каждого товара.

Примеры:
  # Все товары, стандартная ветка
  printvariants catalog

  # Портретная ветка пледа
  printvariants catalog --product blanket --orientation portrait`,
		RunE: func(cmd *cobra.Command, args []string) error {
			products := product.All()
			if productName != "" {
				t, err := product.Parse(productName)
				if err != nil {
					return err
				}
				products = []product.Type{t}
			}

			orient, err := product.ParseOrientation(orientation)
			if err != nil {
				return err
			}
			portrait := orient.IsPortrait()

			out := cmd.OutOrStdout()
			for i, t := range products {
				if i > 0 {
					fmt.Fprintln(out)
				}
				branch := "standard"
				if portrait && catalog.HasPortrait(t) {
					branch = "portrait"
				}
				set := catalog.VariantsFor(t, portrait)
				fmt.Fprintf(out, "📦 %s (%s, %s): %d вариантов, основной %s\n",
					t.Info().Title, t, branch, len(set), catalog.PrimarySuffix(t))

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tOUTPUT\tCANVAS\tROTATE\tFIT\tPOSITION\tEXTRACT\tGROUP")
				for _, v := range set {
					ow, oh := v.OutputSize()
					fmt.Fprintf(w, "%s\t%dx%d\t%dx%d\t%s\t%s\t%s\t%s\t%s\n",
						v.Name, ow, oh, v.Width, v.Height,
						orDash(v.Rotate != 0, fmt.Sprintf("%d", v.Rotate)),
						orDash(v.Fit != "", string(v.Fit)),
						orDash(v.Position != "", string(v.Position)),
						extractString(v.Extract),
						orDash(v.Group != "", v.Group),
					)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&productName, "product", "p", "", "Тип товара (пусто - все)")
	cmd.Flags().StringVar(&orientation, "orientation", "standard", "Ветка каталога: standard, portrait")

	return cmd
}

func orDash(ok bool, s string) string {
	if !ok {
		return "-"
	}
	return s
}

func extractString(r *catalog.Rect) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%d,%d %dx%d", r.Left, r.Top, r.Width, r.Height)
}
