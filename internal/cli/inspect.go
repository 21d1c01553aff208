package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/artemshloyda/printvariants/internal/catalog"
	"github.com/artemshloyda/printvariants/internal/geometry"
	"github.com/artemshloyda/printvariants/internal/product"
	"github.com/artemshloyda/printvariants/internal/scanner"
)

// newInspectCmd создаёт команду inspect, показывающую размеры исходников.
func newInspectCmd() *cobra.Command {
	var productName string

	cmd := &cobra.Command{
		Use:   "inspect PATH...",
		Short: "Показать размеры исходников",
		Long: `Показывает размеры исходников и ветку каталога, которую выберет generate.

С --product дополнительно сравнивает исходник с основным печатным вариантом:
в колонке UPSCALE отмечены исходники, которые придётся увеличивать.

Пример:
  printvariants inspect --product blanket ./products/blankets/rescale`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var t product.Type
			if productName != "" {
				var err error
				if t, err = product.Parse(productName); err != nil {
					return err
				}
			}

			files, err := collect(args)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tSIZE\tORIENTATION\tUPSCALE")
			for _, f := range files {
				buf, err := os.ReadFile(f.Path)
				if err != nil {
					return fmt.Errorf("не удалось прочитать %s: %w", f.Path, err)
				}
				width, height, err := geometry.Dimensions(buf)
				if err != nil {
					fmt.Fprintf(w, "%s\t-\t-\t%v\n", f.Path, err)
					continue
				}
				orient := product.OrientationOf(f.BaseName)
				fmt.Fprintf(w, "%s\t%dx%d\t%s\t%s\n", f.Path, width, height, orient, upscale(t, orient, width, height))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&productName, "product", "p", "", "Тип товара для сравнения с печатным вариантом")
	return cmd
}

// collect раскрывает директории в списки поддерживаемых исходников.
func collect(paths []string) ([]scanner.File, error) {
	var files []scanner.File
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("не удалось открыть %s: %w", p, err)
		}
		if !info.IsDir() {
			f, err := scanner.Stat(p)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
			continue
		}
		list, err := scanner.New(p).List()
		if err != nil {
			return nil, err
		}
		files = append(files, list...)
	}
	return files, nil
}

// upscale сравнивает исходник с первым вариантом ветки.
func upscale(t product.Type, orient product.Orientation, width, height int) string {
	if t == "" {
		return "-"
	}
	set := catalog.VariantsFor(t, orient.IsPortrait())
	if len(set) == 0 {
		return "-"
	}
	v := set[0]
	w, h := v.Width, v.Height
	if v.Rotate%180 != 0 {
		w, h = h, w
	}
	if width >= w && height >= h {
		return "нет"
	}
	return fmt.Sprintf("да (%s: %dx%d)", v.Name, w, h)
}
